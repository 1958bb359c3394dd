package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyAdminPlainFallback(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	assert.True(t, verifyAdmin("admin@example.com", "s3cret"))
	assert.False(t, verifyAdmin("admin@example.com", "wrong"))
	assert.False(t, verifyAdmin("other@example.com", "s3cret"))
}

func TestVerifyAdminBcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	t.Setenv("ADMIN_PASSWORD", "plain-pw")

	assert.True(t, verifyAdmin("admin@example.com", "hashed-pw"))
	assert.False(t, verifyAdmin("admin@example.com", "plain-pw"),
		"the plain fallback is ignored once a hash is configured")
}

func TestVerifyAdminRejectsWhenNoCredentialConfigured(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("ADMIN_PASSWORD", "")

	assert.False(t, verifyAdmin("admin@example.com", ""))
}
