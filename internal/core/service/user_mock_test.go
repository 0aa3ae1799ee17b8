package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"userprofiles/internal/adapter/database/memory"
	"userprofiles/internal/core/domain"
	"userprofiles/internal/core/model/request"
	"userprofiles/internal/core/service"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, changes domain.UserChanges, at time.Time) (domain.User, error) {
	args := m.Called(ctx, id, changes, at)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id int64, at time.Time) (domain.DeactivatedUser, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(domain.DeactivatedUser), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) (domain.DeletedUser, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.DeletedUser), args.Error(1)
}

func (m *MockUserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func TestRegister_LosingInsertIsAConflict(t *testing.T) {
	repo := new(MockUserRepository)
	svc := service.NewUserService(repo)
	req := request.CreateUserRequest{Email: "race@example.com", FullName: "Racer"}

	repo.On("GetByEmail", mock.Anything, "race@example.com").
		Return(domain.User{}, domain.NewNotFoundByEmail("race@example.com"))
	repo.On("Create", mock.Anything, mock.AnythingOfType("domain.User")).
		Return(domain.User{}, domain.NewConflictError("race@example.com", errors.New("duplicate key")))

	_, err := svc.Register(context.Background(), req)

	assert.True(t, domain.IsEmailTaken(err))
	repo.AssertExpectations(t)
}

func TestRegister_PreCheckSkipsInsert(t *testing.T) {
	repo := new(MockUserRepository)
	svc := service.NewUserService(repo)

	repo.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(domain.User{ID: 4, Email: "taken@example.com", IsActive: true}, nil)

	_, err := svc.Register(context.Background(), request.CreateUserRequest{Email: "taken@example.com", FullName: "X"})

	assert.True(t, domain.IsEmailTaken(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_LookupFailureIsReturned(t *testing.T) {
	repo := new(MockUserRepository)
	svc := service.NewUserService(repo)
	boom := errors.New("connection refused")

	repo.On("GetByEmail", mock.Anything, "x@example.com").Return(domain.User{}, boom)

	_, err := svc.Register(context.Background(), request.CreateUserRequest{Email: "x@example.com", FullName: "X"})

	assert.ErrorIs(t, err, boom)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_StampsTruncatedUTCTimestamps(t *testing.T) {
	repo := new(MockUserRepository)
	local := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2026, 5, 1, 8, 0, 0, 123456789, local)
	svc := service.NewUserService(repo, service.WithClock(func() time.Time { return now }))

	expected := now.UTC().Truncate(time.Microsecond)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.CreatedAt.Equal(expected) && u.UpdatedAt.Equal(expected) && u.IsActive && u.CreatedAt.Location() == time.UTC
	})).Return(domain.User{ID: 1}, nil)

	_, err := svc.Create(context.Background(), request.CreateUserRequest{Email: "t@example.com", FullName: "T"})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserService_WithMemoryRepository(t *testing.T) {
	ctx := context.Background()
	svc := service.NewUserService(memory.NewUserRepository())
	req := request.CreateUserRequest{Email: "mem@example.com", FullName: "Memory"}

	created, err := svc.Register(ctx, req)
	assert.NoError(t, err)

	_, err = svc.Deactivate(ctx, created.ID)
	assert.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.True(t, domain.IsEmailTaken(err))

	_, err = svc.Delete(ctx, created.ID)
	assert.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.NoError(t, err)
}
