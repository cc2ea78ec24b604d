package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

// TodoService defines owner-scoped todo operations.
type TodoService interface {
	Create(ctx context.Context, params model.CreateTodoParams) (model.Todo, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (model.Todo, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch model.TodoPatch) (model.Todo, error)
	ToggleCompleted(ctx context.Context, ownerID, id uuid.UUID) (model.Todo, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, query model.ListQuery) ([]model.Todo, error)
	ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.Todo, error)
}

// StatsService defines todo aggregation operations.
type StatsService interface {
	Summary(ctx context.Context, ownerID uuid.UUID) (model.TodoStats, error)
	Counts(ctx context.Context, ownerID uuid.UUID) ([]model.PriorityCount, error)
}

// Todo handles HTTP endpoints for todo management and statistics.
type Todo struct {
	todoService    TodoService
	statsService   StatsService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTodo creates a new Todo handler.
func NewTodo(todoService TodoService, statsService StatsService, contextManager model.ContextManager, logger *logger.Logger) *Todo {
	return &Todo{
		todoService:    todoService,
		statsService:   statsService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// optionalTime distinguishes an absent JSON field from an explicit
// null. Null clears the due date; absence leaves it untouched.
type optionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *optionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

type createTodoRequest struct {
	Text        string     `json:"text"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTodoRequest struct {
	Text        *string      `json:"text"`
	Description *string      `json:"description"`
	Completed   *bool        `json:"completed"`
	Priority    *string      `json:"priority"`
	Category    *string      `json:"category"`
	DueDate     optionalTime `json:"dueDate"`
}

type todoResponse struct {
	ID          uuid.UUID  `json:"id"`
	Text        string     `json:"text"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"dueDate"`
	IsOverdue   bool       `json:"isOverdue"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toTodoResponse(todo model.Todo, now time.Time) todoResponse {
	return todoResponse{
		ID:          todo.ID,
		Text:        todo.Text,
		Description: todo.Description,
		Completed:   todo.Completed,
		Priority:    string(todo.Priority),
		Category:    string(todo.Category),
		DueDate:     todo.DueDate,
		IsOverdue:   todo.IsOverdue(now),
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func toTodoResponses(todos []model.Todo, now time.Time) []todoResponse {
	out := make([]todoResponse, 0, len(todos))
	for _, todo := range todos {
		out = append(out, toTodoResponse(todo, now))
	}
	return out
}

// Create stores a new todo owned by the caller.
func (h *Todo) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrTokenInvalid)
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, model.NewValidationError("body", "malformed JSON"))
		return
	}

	todo, err := h.todoService.Create(r.Context(), model.CreateTodoParams{
		OwnerID:     ownerID,
		Text:        req.Text,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		Category:    model.Category(req.Category),
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.logger.Info("Todo handler: create failed", "owner_id", ownerID, "error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toTodoResponse(todo, time.Now()))
}

// List returns the caller's todos, filtered and sorted by query params.
func (h *Todo) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrTokenInvalid)
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	todos, err := h.todoService.List(r.Context(), ownerID, query)
	if err != nil {
		h.logger.Error("Todo handler: list failed", "owner_id", ownerID, "error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTodoResponses(todos, time.Now()))
}

// Get returns one of the caller's todos.
func (h *Todo) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, id, err := h.requestIDs(r)
	if err != nil {
		respondError(w, err)
		return
	}

	todo, err := h.todoService.Get(r.Context(), ownerID, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTodoResponse(todo, time.Now()))
}

// Update applies a partial update to one of the caller's todos.
func (h *Todo) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, id, err := h.requestIDs(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, model.NewValidationError("body", "malformed JSON"))
		return
	}

	patch := model.TodoPatch{
		Text:        req.Text,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate.Value,
		DueDateSet:  req.DueDate.Set,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Category != nil {
		c := model.Category(*req.Category)
		patch.Category = &c
	}

	todo, err := h.todoService.Update(r.Context(), ownerID, id, patch)
	if err != nil {
		h.logger.Info("Todo handler: update failed", "owner_id", ownerID, "todo_id", id, "error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTodoResponse(todo, time.Now()))
}

// Toggle flips the completed flag on one of the caller's todos.
func (h *Todo) Toggle(w http.ResponseWriter, r *http.Request) {
	ownerID, id, err := h.requestIDs(r)
	if err != nil {
		respondError(w, err)
		return
	}

	todo, err := h.todoService.ToggleCompleted(r.Context(), ownerID, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTodoResponse(todo, time.Now()))
}

// Delete removes one of the caller's todos.
func (h *Todo) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, id, err := h.requestIDs(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.todoService.Delete(r.Context(), ownerID, id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Stats returns the overall, per-priority and per-category summary.
func (h *Todo) Stats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrTokenInvalid)
		return
	}

	stats, err := h.statsService.Summary(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("Todo handler: stats failed", "owner_id", ownerID, "error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Counts returns todo counts grouped by priority and completion.
func (h *Todo) Counts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrTokenInvalid)
		return
	}

	counts, err := h.statsService.Counts(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("Todo handler: counts failed", "owner_id", ownerID, "error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, counts)
}

// DateRange returns todos created or due inside the requested window.
func (h *Todo) DateRange(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, model.ErrTokenInvalid)
		return
	}

	start, err := parseDateParam(r, "startDate")
	if err != nil {
		respondError(w, err)
		return
	}
	end, err := parseDateParam(r, "endDate")
	if err != nil {
		respondError(w, err)
		return
	}

	todos, err := h.todoService.ListByDateRange(r.Context(), ownerID, start, end)
	if err != nil {
		h.logger.Info("Todo handler: date range failed", "owner_id", ownerID, "error", err.Error())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTodoResponses(todos, time.Now()))
}

// requestIDs resolves the caller identity and the path todo id.
func (h *Todo) requestIDs(r *http.Request) (ownerID, id uuid.UUID, err error) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, model.ErrTokenInvalid
	}

	id, err = uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, model.NewValidationError("id", "must be a valid UUID")
	}

	return ownerID, id, nil
}

func parseListQuery(r *http.Request) (model.ListQuery, error) {
	values := r.URL.Query()
	query := model.ListQuery{
		Search: values.Get("search"),
		Sort:   model.ParseSortKey(values.Get("sortBy")),
	}

	if raw := values.Get("completed"); raw != "" {
		switch raw {
		case "true":
			completed := true
			query.Completed = &completed
		case "false":
			completed := false
			query.Completed = &completed
		default:
			return model.ListQuery{}, model.NewValidationError("completed", "must be true or false")
		}
	}

	if raw := values.Get("priority"); raw != "" {
		priority := model.Priority(raw)
		if !priority.Valid() {
			return model.ListQuery{}, model.NewValidationError("priority", "must be low, medium or high")
		}
		query.Priority = &priority
	}

	return query, nil
}

// parseDateParam accepts RFC 3339 timestamps and bare dates.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, model.NewValidationError(name, "is required")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}

	return time.Time{}, model.NewValidationError(name, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
}
