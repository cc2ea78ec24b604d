package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

// TokenParser resolves a user ID from a bearer token.
type TokenParser interface {
	Parse(tokenString string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the user ID into the
// request context. Every protected route sits behind it; handlers never
// see a request without a resolved identity.
type Authenticate struct {
	tokenParser    TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenParser TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		tokenParser:    tokenParser,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle rejects requests without a valid bearer token. The response is
// the same 401 for a missing, malformed or expired token; the reason is
// only logged.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			m.logger.Info("Authenticate middleware: missing authorization token",
				"path", r.URL.Path)
			unauthorized(w)
			return
		}

		userID, err := m.tokenParser.Parse(tokenString)
		if err != nil {
			if errors.Is(err, model.ErrTokenExpired) {
				m.logger.Info("Authenticate middleware: token expired",
					"path", r.URL.Path)
			} else {
				m.logger.Info("Authenticate middleware: invalid token",
					"path", r.URL.Path,
					"error", err.Error())
			}
			unauthorized(w)
			return
		}

		ctx := m.contextManager.SetUserIDToContext(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"invalid or missing authorization token"}`))
}
