package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Limits applied to todo text fields, matching the stored column sizes.
const (
	MaxTextLen        = 100
	MaxDescriptionLen = 500
)

// TodoStore defines persistence operations for todos. Every read and
// write is scoped to an owner at the call boundary; List applies the
// owner filter before any other criterion.
type TodoStore interface {
	Create(ctx context.Context, todo Todo) (Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (Todo, error)
	Update(ctx context.Context, todo Todo) (Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]Todo, error)
	ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]Todo, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// Todo represents a stored task record owned by exactly one user.
// The owner is fixed at creation and never reassigned.
type Todo struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Text        string
	Description string
	Completed   bool
	Priority    Priority
	Category    Category
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOverdue reports whether the todo has a due date in the past and is
// still incomplete. Derived, never stored.
func (t Todo) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return !t.Completed && t.DueDate.Before(now)
}

// Priority enumerates todo priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Category enumerates todo categories.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryOther    Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

// CreateTodoParams contains parameters to create a todo. Zero-valued
// Priority and Category fall back to medium and other respectively.
type CreateTodoParams struct {
	OwnerID     uuid.UUID
	Text        string
	Description string
	Priority    Priority
	Category    Category
	DueDate     *time.Time
}

// TodoPatch carries a partial update. Only non-nil fields are applied,
// and each applied field is re-validated with the creation rules.
// DueDateSet distinguishes "set due date to DueDate" (which may be nil,
// clearing it) from "leave the due date alone".
type TodoPatch struct {
	Text        *string
	Description *string
	Completed   *bool
	Priority    *Priority
	Category    *Category
	DueDate     *time.Time
	DueDateSet  bool
}

// SortKey selects the ordering of a todo listing.
type SortKey string

const (
	// SortNewest orders by creation time, newest first. Default.
	SortNewest SortKey = "newest"
	// SortOldest orders by creation time, oldest first.
	SortOldest SortKey = "oldest"
	// SortPriority orders high before medium before low, newest first within a priority.
	SortPriority SortKey = "priority"
	// SortDueDate orders by due date ascending, todos without one last.
	SortDueDate SortKey = "dueDate"
	// SortAlphabetical orders by text.
	SortAlphabetical SortKey = "alphabetical"
)

// ParseSortKey maps a query-string sort value to a SortKey. Unknown or
// empty values fall back to SortNewest.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortOldest, SortPriority, SortDueDate, SortAlphabetical:
		return SortKey(s)
	}
	return SortNewest
}

// ListQuery is a declarative filter and sort over one owner's todos.
// Nil filter fields mean "no constraint". Search is a case-insensitive
// substring match against text and description.
type ListQuery struct {
	Completed *bool
	Priority  *Priority
	Search    string
	Sort      SortKey
}
