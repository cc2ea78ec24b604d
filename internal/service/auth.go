package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/auth"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Auth implements registration, login and profile management. Passwords
// are stored only as bcrypt hashes; session tokens are stateless JWTs.
type Auth struct {
	userStore    model.UserStore
	todoStore    model.TodoStore
	tokenManager model.TokenManager
	hasher       *auth.PasswordHasher
	logger       *logger.Logger
}

// NewAuth creates a new Auth service.
func NewAuth(
	userStore model.UserStore,
	todoStore model.TodoStore,
	tokenManager model.TokenManager,
	hasher *auth.PasswordHasher,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		todoStore:    todoStore,
		tokenManager: tokenManager,
		hasher:       hasher,
		logger:       logger,
	}
}

// ProfileUpdate carries the mutable profile attributes. Nil fields are
// left untouched. A password change requires both CurrentPassword and
// NewPassword.
type ProfileUpdate struct {
	Name            *string
	CurrentPassword *string
	NewPassword     *string
}

// Register creates a user and issues a session token bound to it.
// Returns model.ErrEmailTaken when the email already exists.
func (a *Auth) Register(ctx context.Context, name, email, password string) (model.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validateRegistration(name, email, password); err != nil {
		return model.User{}, "", err
	}

	existing, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: email already registered", "email", email)
		return model.User{}, "", model.ErrEmailTaken
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err = a.userStore.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	tokenString, err := a.tokenManager.Generate(user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return user, tokenString, nil
}

// Login verifies credentials and issues a session token. Unknown email
// and wrong password both return model.ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, string, error) {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, "", model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: password mismatch", "user_id", user.ID)
		return model.User{}, "", model.ErrInvalidCredentials
	}

	tokenString, err := a.tokenManager.Generate(user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return user, tokenString, nil
}

// GetUser returns the profile for userID.
func (a *Auth) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the present fields of update to the user's
// profile. A password change verifies the current password first and
// re-hashes the new one. Previously issued tokens stay valid: tokens
// are stateless and cannot be revoked.
func (a *Auth) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return model.User{}, model.NewValidationError("name", "must not be empty")
		}
		user.Name = name
	}

	if update.NewPassword != nil {
		if update.CurrentPassword == nil || !a.hasher.Verify(*update.CurrentPassword, user.PasswordHash) {
			a.logger.Info("Auth service: current password mismatch", "user_id", userID)
			return model.User{}, model.ErrInvalidCredentials
		}
		if len(*update.NewPassword) < MinPasswordLen {
			return model.User{}, model.NewValidationError("newPassword", fmt.Sprintf("must be at least %d characters", MinPasswordLen))
		}
		hash, err := a.hasher.Hash(*update.NewPassword)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now()

	user, err = a.userStore.Update(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to update user",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: profile updated", "user_id", userID)

	return user, nil
}

// DeleteAccount removes the user and every todo they own. Todos go
// first so a failure never leaves orphaned records behind a deleted
// owner.
func (a *Auth) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := a.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	deleted, err := a.todoStore.DeleteByOwner(ctx, userID)
	if err != nil {
		a.logger.Error("Auth service: failed to delete user todos",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to delete todos for user: %w", err)
	}

	if err := a.userStore.Delete(ctx, userID); err != nil {
		a.logger.Error("Auth service: failed to delete user",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to delete user: %w", err)
	}

	a.logger.Info("Auth service: account deleted",
		"user_id", userID,
		"todos_deleted", deleted)

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	if name == "" {
		return model.NewValidationError("name", "must not be empty")
	}
	if !emailRe.MatchString(email) {
		return model.NewValidationError("email", "must be a valid email address")
	}
	if len(password) < MinPasswordLen {
		return model.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	return nil
}
