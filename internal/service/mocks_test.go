package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskkeeper-server/internal/model"
)

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTodoStore mocks the TodoStore interface
type MockTodoStore struct {
	mock.Mock
}

func (m *MockTodoStore) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	args := m.Called(ctx, todo)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *MockTodoStore) GetByID(ctx context.Context, id uuid.UUID) (model.Todo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *MockTodoStore) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	args := m.Called(ctx, todo)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *MockTodoStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTodoStore) List(ctx context.Context, ownerID uuid.UUID, query model.ListQuery) ([]model.Todo, error) {
	args := m.Called(ctx, ownerID, query)
	return args.Get(0).([]model.Todo), args.Error(1)
}

func (m *MockTodoStore) ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.Todo, error) {
	args := m.Called(ctx, ownerID, start, end)
	return args.Get(0).([]model.Todo), args.Error(1)
}

func (m *MockTodoStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenManager mocks the TokenManager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Parse(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
