package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sukryu/pSite/pkg/errors"
)

// Hash returns a bcrypt hash of plain using a fresh salt and the default cost.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.ErrInvalidInput.WithReason("password cannot be empty")
	}

	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plain matches hash. Malformed hashes never match.
func Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
