package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT claims carrying the user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

// DefaultTTL is the session token validity window. Tokens are reissued
// only by a new login or registration, never silently refreshed.
const DefaultTTL = 30 * 24 * time.Hour

// NewJWT creates a new JWT token manager with the provided secret key.
// A non-positive ttl falls back to DefaultTTL.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl}
}

var _ model.TokenManager = (*JWT)(nil)

// Generate creates a signed session token bound to userID.
func (j *JWT) Generate(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse validates a session token and extracts the user ID. Tokens past
// their validity window return model.ErrTokenExpired; anything else that
// fails to verify returns model.ErrTokenInvalid.
func (j *JWT) Parse(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, model.ErrTokenExpired
		}
		return uuid.Nil, model.ErrTokenInvalid
	}
	if !token.Valid {
		return uuid.Nil, model.ErrTokenInvalid
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, model.ErrTokenInvalid
	}
	return claims.UserID, nil
}
