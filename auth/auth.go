package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"threadmart/globals"
	"threadmart/middleware"
	"threadmart/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 24 * time.Hour

// AdminLogin verifies the single admin credential and issues a role-scoped
// token. The password is checked against ADMIN_PASSWORD_HASH (bcrypt); a
// plain ADMIN_PASSWORD comparison is kept as a development fallback.
func AdminLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Println("AdminLogin decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.Email == "" || input.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	if !verifyAdmin(input.Email, input.Password) {
		utils.RespondFailure(w, "Invalid email or password")
		return
	}

	token, err := generateAdminToken(input.Email)
	if err != nil {
		log.Println("AdminLogin token error:", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"token": token})
}

func verifyAdmin(email, password string) bool {
	if email != os.Getenv("ADMIN_EMAIL") {
		return false
	}
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	plain := os.Getenv("ADMIN_PASSWORD")
	return plain != "" && subtle.ConstantTimeCompare([]byte(plain), []byte(password)) == 1
}

func generateAdminToken(email string) (string, error) {
	claims := middleware.Claims{
		Email: email,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(adminTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
