package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strings"
)

// AdminCredentials is the static credential source for the admin principal.
// Password may be plaintext or a bcrypt hash.
type AdminCredentials struct {
	Username string
	Password string
}

// LoadAdminCredentials prefers a "username:password" file when path is set.
func LoadAdminCredentials(username, password, path string) (AdminCredentials, error) {
	if path == "" {
		if username == "" || password == "" {
			return AdminCredentials{}, errors.New("admin username and password are required")
		}
		return AdminCredentials{Username: username, Password: password}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return AdminCredentials{}, fmt.Errorf("read admin credentials: %w", err)
	}
	return ParseAdminCredentials(string(data))
}

// ParseAdminCredentials reads the first non-empty, non-comment line as
// "username:password".
func ParseAdminCredentials(content string) (AdminCredentials, error) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		user, pass, ok := strings.Cut(line, ":")
		user, pass = strings.TrimSpace(user), strings.TrimSpace(pass)
		if !ok || user == "" || pass == "" {
			return AdminCredentials{}, errors.New("admin credentials must be username:password")
		}
		return AdminCredentials{Username: user, Password: pass}, nil
	}
	return AdminCredentials{}, errors.New("admin credentials file is empty")
}

// Verify compares in constant time for plaintext secrets.
func (c AdminCredentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	var passOK bool
	if IsBcryptHash(c.Password) {
		passOK = VerifyPassword(c.Password, password)
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}
	return userOK && passOK
}
