package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/identity"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockEngineerRepository is a mock implementation of partner.EngineerRepository
type MockEngineerRepository struct {
	mock.Mock
}

func (m *MockEngineerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Engineer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Engineer), args.Error(1)
}

func (m *MockEngineerRepository) FindAll(ctx context.Context, filter partner.EngineerFilter) ([]partner.Engineer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Engineer), args.Get(1).(int64), args.Error(2)
}

func (m *MockEngineerRepository) Save(ctx context.Context, engineer *partner.Engineer) error {
	args := m.Called(ctx, engineer)
	return args.Error(0)
}

func (m *MockEngineerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
