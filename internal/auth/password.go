package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Cost 8 is ~25ms per hash on the small nodes this runs on.
const bcryptCost = 8

// HashPassword hashes an employee password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches a stored bcrypt hash. A
// malformed or empty hash never matches.
func VerifyPassword(hashedPassword, password string) bool {
	if !IsBcryptHash(hashedPassword) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// IsBcryptHash distinguishes configured bcrypt hashes from plaintext secrets.
func IsBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
