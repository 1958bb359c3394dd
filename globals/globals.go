package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte("change_this_secret")

// UploadDir is where product images land on disk. The /static/productpic
// URL prefix serves from this directory, wherever it points.
var UploadDir = "./static/productpic"

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()

// Init reads secrets and paths from the environment. Call after
// godotenv.Load, so values from a .env file are seen too.
func Init() {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		JwtSecret = []byte(s)
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		UploadDir = dir
	}
}
