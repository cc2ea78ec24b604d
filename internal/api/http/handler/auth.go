package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/service"
)

// AuthService defines registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (model.User, string, error)
	Login(ctx context.Context, email, password string) (model.User, string, error)
	GetUser(ctx context.Context, userID uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update service.ProfileUpdate) (model.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// Auth handles HTTP endpoints for authentication and profiles.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name            *string `json:"name"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// Register creates an account and returns a session token for it.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, model.NewValidationError("body", "malformed JSON"))
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: registration failed", "error", err.Error())
		respondError(w, err)
		return
	}

	h.logger.Info("Auth handler: user registered", "user_id", user.ID)
	respondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: toUserResponse(user)})
}

// Login verifies credentials and returns a session token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, model.NewValidationError("body", "malformed JSON"))
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed", "error", err.Error())
		respondError(w, err)
		return
	}

	h.logger.Info("Auth handler: user logged in", "user_id", user.ID)
	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: toUserResponse(user)})
}

// Me returns the authenticated user's profile.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrTokenInvalid)
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Auth handler: failed to get user", "user_id", userID, "error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateProfile changes the name and/or rotates the password.
func (h *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrTokenInvalid)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, model.NewValidationError("body", "malformed JSON"))
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		Name:            req.Name,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.logger.Info("Auth handler: profile update failed", "user_id", userID, "error", err.Error())
		respondError(w, err)
		return
	}

	h.logger.Info("Auth handler: profile updated", "user_id", userID)
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// DeleteAccount removes the user and everything they own.
func (h *Auth) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrTokenInvalid)
		return
	}

	if err := h.authService.DeleteAccount(r.Context(), userID); err != nil {
		h.logger.Error("Auth handler: account deletion failed", "user_id", userID, "error", err.Error())
		respondError(w, err)
		return
	}

	h.logger.Info("Auth handler: account deleted", "user_id", userID)
	respondJSON(w, http.StatusNoContent, nil)
}
