package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/taskkeeper-server/internal/api/http/context"
	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/testutil"
)

type todoHandlerFixture struct {
	todoService  *MockTodoService
	statsService *MockStatsService
	cm           *httpcontext.Manager
	router       chi.Router
	ownerID      uuid.UUID
}

func newTodoFixture(t *testing.T) *todoHandlerFixture {
	t.Helper()
	f := &todoHandlerFixture{
		todoService:  &MockTodoService{},
		statsService: &MockStatsService{},
		cm:           httpcontext.NewManager(),
		ownerID:      uuid.New(),
	}
	h := NewTodo(f.todoService, f.statsService, f.cm, testutil.MakeNoopLogger())

	r := chi.NewRouter()
	r.Get("/todos", h.List)
	r.Post("/todos", h.Create)
	r.Get("/todos/stats", h.Stats)
	r.Get("/todos/count", h.Counts)
	r.Get("/todos/date-range", h.DateRange)
	r.Get("/todos/{id}", h.Get)
	r.Put("/todos/{id}", h.Update)
	r.Delete("/todos/{id}", h.Delete)
	r.Patch("/todos/{id}/toggle", h.Toggle)
	f.router = r
	return f
}

func (f *todoHandlerFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req = req.WithContext(f.cm.SetUserIDToContext(req.Context(), f.ownerID))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestTodoHandler_Create(t *testing.T) {
	f := newTodoFixture(t)

	f.todoService.On("Create", mock.Anything, mock.MatchedBy(func(p model.CreateTodoParams) bool {
		return p.OwnerID == f.ownerID && p.Text == "Buy milk" && p.Priority == model.PriorityHigh
	})).Return(model.Todo{ID: uuid.New(), OwnerID: f.ownerID, Text: "Buy milk", Priority: model.PriorityHigh}, nil)

	rec := f.do(http.MethodPost, "/todos", `{"text":"Buy milk","priority":"high"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"text":"Buy milk"`)
	f.todoService.AssertExpectations(t)
}

func TestTodoHandler_Create_ValidationError(t *testing.T) {
	f := newTodoFixture(t)

	f.todoService.On("Create", mock.Anything, mock.Anything).
		Return(model.Todo{}, model.NewValidationError("text", "is required"))

	rec := f.do(http.MethodPost, "/todos", `{"description":"no text"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text")
}

func TestTodoHandler_List_QueryParams(t *testing.T) {
	f := newTodoFixture(t)

	completed := true
	priority := model.PriorityHigh
	want := model.ListQuery{Completed: &completed, Priority: &priority, Search: "milk", Sort: model.SortDueDate}
	f.todoService.On("List", mock.Anything, f.ownerID, want).Return([]model.Todo{}, nil)

	rec := f.do(http.MethodGet, "/todos?completed=true&priority=high&search=milk&sortBy=dueDate", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	// An empty listing is an empty array, never null.
	assert.JSONEq(t, `[]`, rec.Body.String())
	f.todoService.AssertExpectations(t)
}

func TestTodoHandler_List_BadParams(t *testing.T) {
	f := newTodoFixture(t)

	rec := f.do(http.MethodGet, "/todos?completed=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/todos?priority=urgent", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodoHandler_List_UnknownSortFallsBack(t *testing.T) {
	f := newTodoFixture(t)

	f.todoService.On("List", mock.Anything, f.ownerID, model.ListQuery{Sort: model.SortNewest}).
		Return([]model.Todo{}, nil)

	rec := f.do(http.MethodGet, "/todos?sortBy=bogus", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.todoService.AssertExpectations(t)
}

func TestTodoHandler_Get(t *testing.T) {
	f := newTodoFixture(t)
	todoID := uuid.New()

	due := time.Now().Add(-time.Hour)
	f.todoService.On("Get", mock.Anything, f.ownerID, todoID).
		Return(model.Todo{ID: todoID, OwnerID: f.ownerID, Text: "late", DueDate: &due}, nil)

	rec := f.do(http.MethodGet, "/todos/"+todoID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["isOverdue"])
}

func TestTodoHandler_Get_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing todo", model.ErrNotFound, http.StatusNotFound},
		{"someone else's todo", model.ErrForbidden, http.StatusForbidden},
		{"store outage", model.ErrUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTodoFixture(t)
			todoID := uuid.New()
			f.todoService.On("Get", mock.Anything, f.ownerID, todoID).Return(model.Todo{}, tc.err)

			rec := f.do(http.MethodGet, "/todos/"+todoID.String(), "")
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestTodoHandler_Get_BadID(t *testing.T) {
	f := newTodoFixture(t)

	rec := f.do(http.MethodGet, "/todos/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodoHandler_Update_DueDateTristate(t *testing.T) {
	todoID := uuid.New()

	t.Run("omitted leaves the due date alone", func(t *testing.T) {
		f := newTodoFixture(t)
		f.todoService.On("Update", mock.Anything, f.ownerID, todoID, mock.MatchedBy(func(p model.TodoPatch) bool {
			return !p.DueDateSet
		})).Return(model.Todo{ID: todoID, OwnerID: f.ownerID}, nil)

		rec := f.do(http.MethodPut, "/todos/"+todoID.String(), `{"text":"new"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		f.todoService.AssertExpectations(t)
	})

	t.Run("null clears it", func(t *testing.T) {
		f := newTodoFixture(t)
		f.todoService.On("Update", mock.Anything, f.ownerID, todoID, mock.MatchedBy(func(p model.TodoPatch) bool {
			return p.DueDateSet && p.DueDate == nil
		})).Return(model.Todo{ID: todoID, OwnerID: f.ownerID}, nil)

		rec := f.do(http.MethodPut, "/todos/"+todoID.String(), `{"dueDate":null}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		f.todoService.AssertExpectations(t)
	})

	t.Run("value sets it", func(t *testing.T) {
		f := newTodoFixture(t)
		f.todoService.On("Update", mock.Anything, f.ownerID, todoID, mock.MatchedBy(func(p model.TodoPatch) bool {
			return p.DueDateSet && p.DueDate != nil && p.DueDate.Year() == 2030
		})).Return(model.Todo{ID: todoID, OwnerID: f.ownerID}, nil)

		rec := f.do(http.MethodPut, "/todos/"+todoID.String(), `{"dueDate":"2030-01-02T15:04:05Z"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		f.todoService.AssertExpectations(t)
	})
}

func TestTodoHandler_Toggle(t *testing.T) {
	f := newTodoFixture(t)
	todoID := uuid.New()

	f.todoService.On("ToggleCompleted", mock.Anything, f.ownerID, todoID).
		Return(model.Todo{ID: todoID, OwnerID: f.ownerID, Completed: true}, nil)

	rec := f.do(http.MethodPatch, "/todos/"+todoID.String()+"/toggle", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":true`)
}

func TestTodoHandler_Delete(t *testing.T) {
	f := newTodoFixture(t)
	todoID := uuid.New()

	f.todoService.On("Delete", mock.Anything, f.ownerID, todoID).Return(nil)

	rec := f.do(http.MethodDelete, "/todos/"+todoID.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTodoHandler_Stats(t *testing.T) {
	f := newTodoFixture(t)

	f.statsService.On("Summary", mock.Anything, f.ownerID).Return(model.TodoStats{
		Overall: model.OverallStats{Total: 2, Completed: 1, CompletionRate: 50},
	}, nil)

	rec := f.do(http.MethodGet, "/todos/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)
	assert.Contains(t, rec.Body.String(), `"completionRate":50`)
}

func TestTodoHandler_Counts(t *testing.T) {
	f := newTodoFixture(t)

	f.statsService.On("Counts", mock.Anything, f.ownerID).Return([]model.PriorityCount{
		{Priority: model.PriorityHigh, Completed: false, Count: 3},
	}, nil)

	rec := f.do(http.MethodGet, "/todos/count", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestTodoHandler_DateRange(t *testing.T) {
	f := newTodoFixture(t)

	f.todoService.On("ListByDateRange", mock.Anything, f.ownerID,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	).Return([]model.Todo{}, nil)

	rec := f.do(http.MethodGet, "/todos/date-range?startDate=2025-03-01&endDate=2025-03-07", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.todoService.AssertExpectations(t)
}

func TestTodoHandler_DateRange_MissingParams(t *testing.T) {
	f := newTodoFixture(t)

	rec := f.do(http.MethodGet, "/todos/date-range?startDate=2025-03-01", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "endDate")
}
