package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// SaveFile stores an uploaded file under folder with a generated name and
// returns the file name.
func SaveFile(file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	filename := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(header.Filename))
	filePath := filepath.Join(folder, filename)

	out, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return filename, nil
}

// CreateThumb writes a width-bound thumbnail next to the original, under a
// "thumb" subfolder with the same file name.
func CreateThumb(folder, filename string, width int) error {
	img, err := imaging.Open(filepath.Join(folder, filename))
	if err != nil {
		return err
	}
	thumbDir := filepath.Join(folder, "thumb")
	if err := EnsureDir(thumbDir); err != nil {
		return err
	}
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(thumbDir, filename))
}
