package globals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("UPLOAD_DIR", "/data/uploads")
	Init()

	assert.Equal(t, []byte("test-secret"), JwtSecret)
	assert.Equal(t, "/data/uploads", UploadDir)
}

func TestInitKeepsDefaultsWhenUnset(t *testing.T) {
	JwtSecret = []byte("change_this_secret")
	UploadDir = "./static/productpic"
	t.Setenv("JWT_SECRET", "")
	t.Setenv("UPLOAD_DIR", "")
	Init()

	assert.Equal(t, []byte("change_this_secret"), JwtSecret)
	assert.Equal(t, "./static/productpic", UploadDir)
}
