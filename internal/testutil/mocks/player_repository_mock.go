package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/squadpick/internal/models"
)

// MockPlayerRepository is a mock implementation of repository.PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Get(ctx context.Context, id int64) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Create(ctx context.Context, in models.PlayerInput) (int64, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlayerRepository) Update(ctx context.Context, id int64, in models.PlayerInput) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockPlayerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
