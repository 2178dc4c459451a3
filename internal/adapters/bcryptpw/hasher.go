package bcryptpw

// Package bcryptpw provides the bcrypt-backed password hasher.

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher implements ports.PasswordHasher using bcrypt.
// The zero value uses bcrypt.DefaultCost.
type Hasher struct {
	Cost int
}

// New returns a Hasher with the default cost.
func New() Hasher { return Hasher{Cost: bcrypt.DefaultCost} }

// Hash returns the bcrypt hash of plain.
func (h Hasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Verify reports whether plain matches hash. Any comparison error,
// including a malformed stored hash, reads as a mismatch.
func (h Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
