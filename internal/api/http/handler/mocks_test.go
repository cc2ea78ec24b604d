package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (model.User, string, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (model.User, string, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, update service.ProfileUpdate) (model.User, error) {
	args := m.Called(ctx, userID, update)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) Create(ctx context.Context, params model.CreateTodoParams) (model.Todo, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *MockTodoService) Get(ctx context.Context, ownerID, id uuid.UUID) (model.Todo, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *MockTodoService) Update(ctx context.Context, ownerID, id uuid.UUID, patch model.TodoPatch) (model.Todo, error) {
	args := m.Called(ctx, ownerID, id, patch)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *MockTodoService) ToggleCompleted(ctx context.Context, ownerID, id uuid.UUID) (model.Todo, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(model.Todo), args.Error(1)
}

func (m *MockTodoService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTodoService) List(ctx context.Context, ownerID uuid.UUID, query model.ListQuery) ([]model.Todo, error) {
	args := m.Called(ctx, ownerID, query)
	return args.Get(0).([]model.Todo), args.Error(1)
}

func (m *MockTodoService) ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.Todo, error) {
	args := m.Called(ctx, ownerID, start, end)
	return args.Get(0).([]model.Todo), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Summary(ctx context.Context, ownerID uuid.UUID) (model.TodoStats, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(model.TodoStats), args.Error(1)
}

func (m *MockStatsService) Counts(ctx context.Context, ownerID uuid.UUID) ([]model.PriorityCount, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]model.PriorityCount), args.Error(1)
}
