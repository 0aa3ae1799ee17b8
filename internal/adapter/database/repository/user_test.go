package repository_test

import (
	"context"
	"testing"
	"time"

	. "userprofiles/pkg/test"

	"userprofiles/internal/adapter/database"
	"userprofiles/internal/adapter/database/repository"
	"userprofiles/internal/adapter/database/sqlite"
	"userprofiles/internal/core/domain"
	"userprofiles/internal/core/port"
	"userprofiles/internal/core/telemetry"

	sq "github.com/Masterminds/squirrel"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	db   *sqlite.DB
	repo port.UserRepository
	now  time.Time
}

func (s *UserRepositoryTestSuite) SetupTest() {
	s.db = InitTestDB()
	s.repo = repository.NewUserRepository(s.db, telemetry.NewNoOpProbe())
	s.now = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
}

func (s *UserRepositoryTestSuite) TearDownTest() {
	s.db.Close()
}

func TestUserRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) create(email string, at time.Time) domain.User {
	user, err := s.repo.Create(context.Background(), domain.User{
		Email:     email,
		FullName:  "Test User",
		CreatedAt: at,
		UpdatedAt: at,
	})

	s.Require().NoError(err)
	return user
}

func strPtr(s string) *string { return &s }

func (s *UserRepositoryTestSuite) TestRepository_Create_Success() {
	user, err := s.repo.Create(context.Background(), domain.User{
		Email:     "ana@example.com",
		FullName:  "Ana Souza",
		Phone:     strPtr("+5511999990000"),
		Location:  strPtr("Recife"),
		CreatedAt: s.now,
		UpdatedAt: s.now,
	})

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), user.ID)
	assert.Equal(s.T(), "Ana Souza", user.FullName)
	assert.Equal(s.T(), "+5511999990000", *user.Phone)
	assert.Nil(s.T(), user.Bio)
	assert.True(s.T(), user.IsActive)
	Expect(user.CreatedAt.Equal(s.now)).To(BeTrue())
	Expect(user.UpdatedAt.Equal(user.CreatedAt)).To(BeTrue())
}

func (s *UserRepositoryTestSuite) TestRepository_Create_DuplicateEmail() {
	s.create("dup@example.com", s.now)

	_, err := s.repo.Create(context.Background(), domain.User{
		Email:     "dup@example.com",
		FullName:  "Other",
		CreatedAt: s.now,
		UpdatedAt: s.now,
	})

	assert.True(s.T(), domain.IsEmailTaken(err))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByID_And_GetByEmail() {
	ctx := context.Background()
	created := s.create("find@example.com", s.now)

	byID, err := s.repo.GetByID(ctx, created.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, byID.ID)
	assert.Equal(s.T(), created.Email, byID.Email)
	Expect(byID.UpdatedAt.Equal(created.UpdatedAt)).To(BeTrue())

	byEmail, err := s.repo.GetByEmail(ctx, "find@example.com")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, byEmail.ID)

	_, err = s.repo.GetByID(ctx, created.ID+100)
	assert.True(s.T(), domain.IsNotFound(err))

	_, err = s.repo.GetByEmail(ctx, "missing@example.com")
	assert.True(s.T(), domain.IsNotFound(err))
}

func (s *UserRepositoryTestSuite) TestRepository_Update_OnlyTouchesGivenColumns() {
	ctx := context.Background()
	created, err := s.repo.Create(ctx, domain.User{
		Email:     "upd@example.com",
		FullName:  "Before",
		Phone:     strPtr("123"),
		Bio:       strPtr("bio"),
		CreatedAt: s.now,
		UpdatedAt: s.now,
	})
	s.Require().NoError(err)

	later := s.now.Add(time.Minute)
	updated, err := s.repo.Update(ctx, created.ID, domain.UserChanges{
		domain.FieldFullName: strPtr("After"),
		domain.FieldPhone:    nil,
	}, later)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "After", updated.FullName)
	assert.Nil(s.T(), updated.Phone)
	assert.Equal(s.T(), "bio", *updated.Bio)
	assert.Equal(s.T(), created.Email, updated.Email)
	Expect(updated.CreatedAt.Equal(created.CreatedAt)).To(BeTrue())
	Expect(updated.UpdatedAt.Equal(later)).To(BeTrue())
}

func (s *UserRepositoryTestSuite) TestRepository_Deactivate() {
	ctx := context.Background()
	created := s.create("off@example.com", s.now)

	deactivated, err := s.repo.Deactivate(ctx, created.ID, s.now.Add(time.Second))

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), domain.DeactivatedUser{ID: created.ID, Email: "off@example.com", IsActive: false}, deactivated)

	_, err = s.repo.GetByID(ctx, created.ID)
	assert.True(s.T(), domain.IsNotFound(err))

	_, err = s.repo.Update(ctx, created.ID, domain.UserChanges{domain.FieldBio: strPtr("x")}, s.now)
	assert.True(s.T(), domain.IsNotFound(err))

	_, err = s.repo.Deactivate(ctx, created.ID, s.now)
	assert.True(s.T(), domain.IsNotFound(err))
}

func (s *UserRepositoryTestSuite) TestRepository_Deactivate_RefreshesUpdatedAt() {
	ctx := context.Background()
	created := s.create("stamp@example.com", s.now)
	later := s.now.Add(time.Hour)

	_, err := s.repo.Deactivate(ctx, created.ID, later)
	s.Require().NoError(err)

	rows, err := s.db.Execute(ctx, s.db.Builder().
		Select("id", "email", "full_name", "is_active", "created_at", "updated_at").
		From("users").
		Where(sq.Eq{"id": created.ID}))
	s.Require().NoError(err)

	var stored domain.User
	s.Require().NoError(database.NewScanner().ScanFirst(rows, &stored))

	assert.False(s.T(), stored.IsActive)
	Expect(stored.CreatedAt.Equal(s.now)).To(BeTrue())
	Expect(stored.UpdatedAt.Equal(later)).To(BeTrue())
	Expect(stored.UpdatedAt).NotTo(BeTemporally("<", stored.CreatedAt))
}

func (s *UserRepositoryTestSuite) TestRepository_Delete_IgnoresActiveFlag() {
	ctx := context.Background()
	created := s.create("gone@example.com", s.now)

	_, err := s.repo.Deactivate(ctx, created.ID, s.now)
	s.Require().NoError(err)

	deleted, err := s.repo.Delete(ctx, created.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), domain.DeletedUser{ID: created.ID, Email: "gone@example.com"}, deleted)

	_, err = s.repo.Delete(ctx, created.ID)
	assert.True(s.T(), domain.IsNotFound(err))

	s.create("gone@example.com", s.now)
}

func (s *UserRepositoryTestSuite) TestRepository_ListActive_NewestFirst() {
	ctx := context.Background()
	first := s.create("first@example.com", s.now)
	second := s.create("second@example.com", s.now.Add(time.Second))
	third := s.create("third@example.com", s.now.Add(2*time.Second))

	_, err := s.repo.Deactivate(ctx, second.ID, s.now.Add(3*time.Second))
	s.Require().NoError(err)

	users, err := s.repo.ListActive(ctx)

	assert.NoError(s.T(), err)
	Expect(users).To(HaveLen(2))
	Expect(users[0].ID).To(Equal(third.ID))
	Expect(users[1].ID).To(Equal(first.ID))
}

func (s *UserRepositoryTestSuite) TestRepository_ListActive_Empty() {
	users, err := s.repo.ListActive(context.Background())

	assert.NoError(s.T(), err)
	assert.Empty(s.T(), users)
	assert.NotNil(s.T(), users)
}
