package model

import (
	"errors"

	"github.com/google/uuid"
)

// TokenManager generates and validates signed session tokens.
// Tokens are stateless: validity is purely cryptographic plus expiry,
// nothing is persisted server-side and nothing can be revoked.
type TokenManager interface {
	Generate(userID uuid.UUID) (string, error)
	Parse(token string) (uuid.UUID, error)
}

var (
	// ErrTokenInvalid means the token is malformed or its signature does not verify.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired means the token is past its validity window.
	ErrTokenExpired = errors.New("token expired")
)
