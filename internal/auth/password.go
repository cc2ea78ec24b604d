package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for new password hashes.
const DefaultCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt. The hash
// embeds its own salt; verification runs at the hash's recorded cost
// regardless of whether the password matches.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with DefaultCost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: DefaultCost}
}

// Hash derives a salted one-way hash of password.
func (h *PasswordHasher) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether password matches hash.
func (h *PasswordHasher) Verify(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
