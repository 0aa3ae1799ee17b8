package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"userprofiles/internal/core/domain"
	"userprofiles/internal/core/port"
)

// userRepository keeps users in a map. It enforces the same email
// uniqueness and activity rules as the SQL repository and is meant for
// tests that do not need a database.
type userRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func NewUserRepository() port.UserRepository {
	return &userRepository{users: map[int64]domain.User{}}
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.User{}, domain.NewConflictError(user.Email, nil)
		}
	}

	r.nextID++
	user.ID = r.nextID
	user.IsActive = true
	r.users[user.ID] = clone(user)

	return clone(user), nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || user.IsDeactivated() {
		return domain.User{}, domain.NewNotFoundByID(id)
	}

	return clone(user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email && !user.IsDeactivated() {
			return clone(user), nil
		}
	}

	return domain.User{}, domain.NewNotFoundByEmail(email)
}

func (r *userRepository) Update(ctx context.Context, id int64, changes domain.UserChanges, at time.Time) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || user.IsDeactivated() {
		return domain.User{}, domain.NewNotFoundByID(id)
	}

	for field, value := range changes {
		switch field {
		case domain.FieldFullName:
			if value != nil {
				user.FullName = *value
			}
		case domain.FieldPhone:
			user.Phone = value
		case domain.FieldBio:
			user.Bio = value
		case domain.FieldLocation:
			user.Location = value
		}
	}

	user.UpdatedAt = at
	r.users[id] = clone(user)

	return clone(user), nil
}

func (r *userRepository) Deactivate(ctx context.Context, id int64, at time.Time) (domain.DeactivatedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || user.IsDeactivated() {
		return domain.DeactivatedUser{}, domain.NewNotFoundByID(id)
	}

	user.IsActive = false
	user.UpdatedAt = at
	r.users[id] = user

	return domain.DeactivatedUser{ID: user.ID, Email: user.Email, IsActive: false}, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (domain.DeletedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.DeletedUser{}, domain.NewNotFoundByID(id)
	}

	delete(r.users, id)

	return domain.DeletedUser{ID: user.ID, Email: user.Email}, nil
}

func (r *userRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := []domain.User{}
	for _, user := range r.users {
		if !user.IsDeactivated() {
			users = append(users, clone(user))
		}
	}

	slices.SortFunc(users, func(a, b domain.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return users, nil
}

func clone(user domain.User) domain.User {
	user.Phone = copyString(user.Phone)
	user.Bio = copyString(user.Bio)
	user.Location = copyString(user.Location)
	return user
}

func copyString(value *string) *string {
	if value == nil {
		return nil
	}

	v := *value
	return &v
}
