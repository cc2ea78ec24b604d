package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/taskkeeper-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// mapError translates a service error into an HTTP status and a body
// message. Unexpected errors collapse into a generic 500; the detail
// stays in the logs.
func mapError(err error) (int, string) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Error()
	}

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenExpired):
		return http.StatusUnauthorized, "invalid or missing authorization token"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, model.ErrUnavailable):
		return http.StatusServiceUnavailable, "temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status, message := mapError(err)
	respondJSON(w, status, errorResponse{Error: message})
}
