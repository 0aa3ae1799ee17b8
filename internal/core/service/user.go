package service

import (
	"context"
	"strconv"
	"time"

	"userprofiles/internal/core/domain"
	"userprofiles/internal/core/model/request"
	"userprofiles/internal/core/port"
	tel "userprofiles/internal/core/telemetry"
)

const serviceName = "user"

type UserService struct {
	repo      port.UserRepository
	telemetry port.Telemetry
	now       func() time.Time
}

type Option func(*UserService)

// WithClock replaces time.Now as the source of created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) {
		s.now = now
	}
}

func WithTelemetry(telemetry port.Telemetry) Option {
	return func(s *UserService) {
		if telemetry != nil {
			s.telemetry = telemetry
		}
	}
}

func NewUserService(repo port.UserRepository, opts ...Option) *UserService {
	s := &UserService{
		repo:      repo,
		telemetry: tel.NewNoOpProbe(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// timestamp is truncated to microseconds, the precision every supported
// database stores.
func (us *UserService) timestamp() time.Time {
	return us.now().UTC().Truncate(time.Microsecond)
}

// Register rejects an email that already belongs to an active user before
// attempting the insert. The unique constraint still decides: a concurrent
// or deactivated owner surfaces as a conflict from Create.
func (us *UserService) Register(ctx context.Context, req request.CreateUserRequest) (domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, serviceName, "register", nil)
	defer span.End()

	_, err := us.repo.GetByEmail(ctx, req.Email)

	if err == nil {
		return domain.User{}, domain.NewConflictError(req.Email, nil)
	}

	if !domain.IsNotFound(err) {
		return domain.User{}, err
	}

	return us.Create(ctx, req)
}

func (us *UserService) Create(ctx context.Context, req request.CreateUserRequest) (domain.User, error) {
	now := us.timestamp()

	user, err := us.observe(ctx, "create", func(ctx context.Context) (domain.User, error) {
		return us.repo.Create(ctx, domain.User{
			Email:     req.Email,
			FullName:  req.FullName,
			Phone:     req.Phone,
			Bio:       req.Bio,
			Location:  req.Location,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})

	if err != nil {
		return domain.User{}, err
	}

	us.telemetry.RecordBusinessEvent(ctx, "user.created", serviceName, strconv.FormatInt(user.ID, 10), nil)
	return user, nil
}

func (us *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return us.observe(ctx, "get_by_id", func(ctx context.Context) (domain.User, error) {
		return us.repo.GetByID(ctx, id)
	})
}

func (us *UserService) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return us.observe(ctx, "get_by_email", func(ctx context.Context) (domain.User, error) {
		return us.repo.GetByEmail(ctx, email)
	})
}

// UpdateProfile applies only the fields present in req. With nothing to
// apply it behaves like GetByID and leaves updated_at alone.
func (us *UserService) UpdateProfile(ctx context.Context, id int64, req request.UpdateUserRequest) (domain.User, error) {
	changes := req.Changes()

	if changes.IsEmpty() {
		return us.GetByID(ctx, id)
	}

	return us.observe(ctx, "update", func(ctx context.Context) (domain.User, error) {
		return us.repo.Update(ctx, id, changes, us.timestamp())
	})
}

func (us *UserService) Deactivate(ctx context.Context, id int64) (domain.DeactivatedUser, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, serviceName, "deactivate", map[string]interface{}{"user.id": id})
	defer span.End()

	start := time.Now()
	user, err := us.repo.Deactivate(ctx, id, us.timestamp())
	us.telemetry.RecordServiceOperation(ctx, serviceName, "deactivate", time.Since(start), err)

	if err != nil {
		return domain.DeactivatedUser{}, err
	}

	us.telemetry.RecordBusinessEvent(ctx, "user.deactivated", serviceName, strconv.FormatInt(id, 10), nil)
	return user, nil
}

func (us *UserService) Delete(ctx context.Context, id int64) (domain.DeletedUser, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, serviceName, "delete", map[string]interface{}{"user.id": id})
	defer span.End()

	start := time.Now()
	user, err := us.repo.Delete(ctx, id)
	us.telemetry.RecordServiceOperation(ctx, serviceName, "delete", time.Since(start), err)

	if err != nil {
		return domain.DeletedUser{}, err
	}

	us.telemetry.RecordBusinessEvent(ctx, "user.deleted", serviceName, strconv.FormatInt(id, 10), nil)
	return user, nil
}

func (us *UserService) ListActive(ctx context.Context) ([]domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, serviceName, "list_active", nil)
	defer span.End()

	start := time.Now()
	users, err := us.repo.ListActive(ctx)
	us.telemetry.RecordServiceOperation(ctx, serviceName, "list_active", time.Since(start), err)

	return users, err
}

func (us *UserService) observe(ctx context.Context, operation string, fn func(context.Context) (domain.User, error)) (domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, serviceName, operation, nil)
	defer span.End()

	start := time.Now()
	user, err := fn(ctx)
	us.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), err)

	return user, err
}
