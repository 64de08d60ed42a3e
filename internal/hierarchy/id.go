package hierarchy

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	idSuffixLen = 7
	idAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	idSeparator = "-"
)

var idPrefixes = map[Role]string{
	Branch:       "B",
	Manager:      "M",
	FieldManager: "FM",
	HomeTeacher:  "HT",
}

// NewEmployeeID returns "<prefix>-<7 random [a-z0-9]>", e.g. "FM-k3x9a0q".
// The prefix is informational only; authorization reads the stored role.
func NewEmployeeID(role Role) (string, error) {
	prefix, ok := idPrefixes[role]
	if !ok {
		return "", fmt.Errorf("no id prefix for role %q", role)
	}

	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + idSuffixLen)
	sb.WriteString(prefix)
	sb.WriteString(idSeparator)

	max := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < idSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		sb.WriteByte(idAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// RoleFromID decodes the role prefix of an employee id.
func RoleFromID(id string) (Role, bool) {
	prefix, suffix, ok := strings.Cut(id, idSeparator)
	if !ok || len(suffix) != idSuffixLen {
		return "", false
	}
	for role, p := range idPrefixes {
		if p == prefix {
			return role, true
		}
	}
	return "", false
}
