package port

import (
	"context"
	"time"

	"userprofiles/internal/core/domain"
	"userprofiles/internal/core/model/request"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, id int64, changes domain.UserChanges, at time.Time) (domain.User, error)
	Deactivate(ctx context.Context, id int64, at time.Time) (domain.DeactivatedUser, error)
	Delete(ctx context.Context, id int64) (domain.DeletedUser, error)
	ListActive(ctx context.Context) ([]domain.User, error)
}

type UserService interface {
	Register(ctx context.Context, req request.CreateUserRequest) (domain.User, error)
	Create(ctx context.Context, req request.CreateUserRequest) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, id int64, req request.UpdateUserRequest) (domain.User, error)
	Deactivate(ctx context.Context, id int64) (domain.DeactivatedUser, error)
	Delete(ctx context.Context, id int64) (domain.DeletedUser, error)
	ListActive(ctx context.Context) ([]domain.User, error)
}
