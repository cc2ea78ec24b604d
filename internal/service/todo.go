package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

// Todo implements owner-scoped CRUD over the todo store. Every
// operation takes the owner ID resolved by the authorization gate; the
// service itself never reads ambient identity.
type Todo struct {
	todoStore model.TodoStore
	logger    *logger.Logger
}

// NewTodo creates a new Todo service.
func NewTodo(todoStore model.TodoStore, logger *logger.Logger) *Todo {
	return &Todo{
		todoStore: todoStore,
		logger:    logger,
	}
}

// Create validates params and stores a new todo. The owner always comes
// from the authenticated caller, never from client input.
func (s *Todo) Create(ctx context.Context, params model.CreateTodoParams) (model.Todo, error) {
	if params.Priority == "" {
		params.Priority = model.PriorityMedium
	}
	if params.Category == "" {
		params.Category = model.CategoryOther
	}

	now := time.Now()
	if err := validateTodoFields(params.Text, params.Description, params.Priority, params.Category); err != nil {
		return model.Todo{}, err
	}
	if err := validateDueDate(params.DueDate, now); err != nil {
		return model.Todo{}, err
	}

	todo := model.Todo{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		Text:        params.Text,
		Description: params.Description,
		Completed:   false,
		Priority:    params.Priority,
		Category:    params.Category,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	todo, err := s.todoStore.Create(ctx, todo)
	if err != nil {
		s.logger.Error("Todo service: failed to create todo",
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// Get returns the todo with id if it belongs to ownerID. A record owned
// by someone else returns model.ErrForbidden, a missing one
// model.ErrNotFound; the two stay distinguishable by design.
func (s *Todo) Get(ctx context.Context, ownerID, id uuid.UUID) (model.Todo, error) {
	return s.getOwned(ctx, ownerID, id)
}

// Update applies the present fields of patch to the todo and
// re-validates each of them. A due date that is already in the past but
// untouched by the patch never causes a rejection.
func (s *Todo) Update(ctx context.Context, ownerID, id uuid.UUID, patch model.TodoPatch) (model.Todo, error) {
	todo, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return model.Todo{}, err
	}

	now := time.Now()

	if patch.Text != nil {
		todo.Text = *patch.Text
	}
	if patch.Description != nil {
		todo.Description = *patch.Description
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		todo.Priority = *patch.Priority
	}
	if patch.Category != nil {
		todo.Category = *patch.Category
	}
	if patch.DueDateSet {
		if err := validateDueDate(patch.DueDate, now); err != nil {
			return model.Todo{}, err
		}
		todo.DueDate = patch.DueDate
	}

	if err := validateTodoFields(todo.Text, todo.Description, todo.Priority, todo.Category); err != nil {
		return model.Todo{}, err
	}

	todo.UpdatedAt = now

	todo, err = s.todoStore.Update(ctx, todo)
	if err != nil {
		s.logger.Error("Todo service: failed to update todo",
			"todo_id", id,
			"error", err.Error())
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// ToggleCompleted flips the completed flag. Each call is a state
// transition; applying it twice restores the original value.
func (s *Todo) ToggleCompleted(ctx context.Context, ownerID, id uuid.UUID) (model.Todo, error) {
	todo, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return model.Todo{}, err
	}

	todo.Completed = !todo.Completed
	todo.UpdatedAt = time.Now()

	todo, err = s.todoStore.Update(ctx, todo)
	if err != nil {
		s.logger.Error("Todo service: failed to toggle todo",
			"todo_id", id,
			"error", err.Error())
		return model.Todo{}, fmt.Errorf("failed to toggle todo: %w", err)
	}

	return todo, nil
}

// Delete removes the todo after the same ownership check as Get.
func (s *Todo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.todoStore.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		s.logger.Error("Todo service: failed to delete todo",
			"todo_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

// List returns the owner's todos matching query. An empty result is a
// valid, non-error outcome.
func (s *Todo) List(ctx context.Context, ownerID uuid.UUID, query model.ListQuery) ([]model.Todo, error) {
	todos, err := s.todoStore.List(ctx, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// ListByDateRange returns the owner's todos created or due within
// [start, end]. The end date is extended to the end of its day.
func (s *Todo) ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.Todo, error) {
	if end.Before(start) {
		return nil, model.NewValidationError("endDate", "must not be before startDate")
	}

	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())

	todos, err := s.todoStore.ListByDateRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos by date range: %w", err)
	}
	return todos, nil
}

// DeleteAllForOwner removes every todo owned by ownerID and reports how
// many were deleted. Used only by the account-deletion cascade.
func (s *Todo) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	count, err := s.todoStore.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos for owner: %w", err)
	}
	return count, nil
}

func (s *Todo) getOwned(ctx context.Context, ownerID, id uuid.UUID) (model.Todo, error) {
	todo, err := s.todoStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Todo{}, model.ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo by id: %w", err)
	}
	if todo.OwnerID != ownerID {
		s.logger.Info("Todo service: ownership mismatch",
			"todo_id", id,
			"owner_id", todo.OwnerID,
			"caller_id", ownerID)
		return model.Todo{}, model.ErrForbidden
	}
	return todo, nil
}

func validateTodoFields(text, description string, priority model.Priority, category model.Category) error {
	if text == "" {
		return model.NewValidationError("text", "must not be empty")
	}
	if len(text) > model.MaxTextLen {
		return model.NewValidationError("text", fmt.Sprintf("must be at most %d characters", model.MaxTextLen))
	}
	if len(description) > model.MaxDescriptionLen {
		return model.NewValidationError("description", fmt.Sprintf("must be at most %d characters", model.MaxDescriptionLen))
	}
	if !priority.Valid() {
		return model.NewValidationError("priority", "must be one of low, medium, high")
	}
	if !category.Valid() {
		return model.NewValidationError("category", "must be one of work, personal, shopping, other")
	}
	return nil
}

func validateDueDate(dueDate *time.Time, now time.Time) error {
	if dueDate != nil && !dueDate.After(now) {
		return model.NewValidationError("dueDate", "must be in the future")
	}
	return nil
}
