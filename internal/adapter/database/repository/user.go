package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"userprofiles/internal/adapter/database"
	"userprofiles/internal/core/domain"
	"userprofiles/internal/core/port"
	tel "userprofiles/internal/core/telemetry"
)

const usersTable = "users"

type UserRepository struct {
	db        port.Gateway
	scanner   *database.Scanner
	telemetry port.Telemetry
	columns   string
}

func NewUserRepository(db port.Gateway, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	scanner := database.NewScanner()

	return &UserRepository{
		db:        db,
		scanner:   scanner,
		telemetry: telemetry,
		columns:   strings.Join(scanner.Columns(domain.User{}), ", "),
	}
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	query := ur.db.Builder().Insert(usersTable).
		Columns("email", "full_name", "phone", "bio", "location", "is_active", "created_at", "updated_at").
		Values(user.Email, user.FullName, nullable(user.Phone), nullable(user.Bio), nullable(user.Location), true, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING " + ur.columns)

	rows, err := ur.execute(ctx, "insert", query)

	if errors.Is(err, database.ErrUniqueViolation) {
		return domain.User{}, domain.NewConflictError(user.Email, err)
	}

	if err != nil {
		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	var data domain.User

	if err := ur.scanner.ScanFirst(rows, &data); err != nil {
		slog.Error("Error scanning created user", "error", err)
		return domain.User{}, err
	}

	return data, nil
}

func (ur *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	query := ur.db.Builder().Select(ur.columns).
		From(usersTable).
		Where(sq.Eq{"id": id, "is_active": true})

	return ur.getOne(ctx, query, domain.NewNotFoundByID(id))
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := ur.db.Builder().Select(ur.columns).
		From(usersTable).
		Where(sq.Eq{"email": email, "is_active": true})

	return ur.getOne(ctx, query, domain.NewNotFoundByEmail(email))
}

// Update writes only the allow-listed columns present in changes, plus
// updated_at. Deactivated users are never touched.
func (ur *UserRepository) Update(ctx context.Context, id int64, changes domain.UserChanges, at time.Time) (domain.User, error) {
	values := map[string]interface{}{"updated_at": at}

	for _, field := range domain.UpdatableFields {
		if value, ok := changes[field]; ok {
			values[string(field)] = nullable(value)
		}
	}

	query := ur.db.Builder().Update(usersTable).
		SetMap(values).
		Where(sq.Eq{"id": id, "is_active": true}).
		Suffix("RETURNING " + ur.columns)

	rows, err := ur.execute(ctx, "update", query)

	if err != nil {
		slog.Error("Error updating user", "error", err, "id", id)
		return domain.User{}, err
	}

	var data domain.User

	if err := ur.scanner.ScanFirst(rows, &data); err != nil {
		return domain.User{}, ur.notFound(err, domain.NewNotFoundByID(id))
	}

	return data, nil
}

func (ur *UserRepository) Deactivate(ctx context.Context, id int64, at time.Time) (domain.DeactivatedUser, error) {
	query := ur.db.Builder().Update(usersTable).
		Set("is_active", false).
		Set("updated_at", at).
		Where(sq.Eq{"id": id, "is_active": true}).
		Suffix("RETURNING id, email, is_active")

	rows, err := ur.execute(ctx, "deactivate", query)

	if err != nil {
		slog.Error("Error deactivating user", "error", err, "id", id)
		return domain.DeactivatedUser{}, err
	}

	var data domain.DeactivatedUser

	if err := ur.scanner.ScanFirst(rows, &data); err != nil {
		return domain.DeactivatedUser{}, ur.notFound(err, domain.NewNotFoundByID(id))
	}

	return data, nil
}

// Delete removes the row whether or not it is active.
func (ur *UserRepository) Delete(ctx context.Context, id int64) (domain.DeletedUser, error) {
	query := ur.db.Builder().Delete(usersTable).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, email")

	rows, err := ur.execute(ctx, "delete", query)

	if err != nil {
		slog.Error("Error deleting user", "error", err, "id", id)
		return domain.DeletedUser{}, err
	}

	var data domain.DeletedUser

	if err := ur.scanner.ScanFirst(rows, &data); err != nil {
		return domain.DeletedUser{}, ur.notFound(err, domain.NewNotFoundByID(id))
	}

	return data, nil
}

func (ur *UserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	query := ur.db.Builder().Select(ur.columns).
		From(usersTable).
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at DESC")

	rows, err := ur.execute(ctx, "list", query)

	if err != nil {
		slog.Error("Error listing users", "error", err)
		return nil, err
	}

	data := []domain.User{}

	if err := ur.scanner.ScanRows(rows, &data); err != nil {
		slog.Error("Error scanning users", "error", err)
		return nil, err
	}

	return data, nil
}

func (ur *UserRepository) getOne(ctx context.Context, query sq.SelectBuilder, notFound *domain.NotFoundError) (domain.User, error) {
	rows, err := ur.execute(ctx, "select", query)

	if err != nil {
		slog.Error("Error getting user", "error", err, notFound.Field, notFound.Value)
		return domain.User{}, err
	}

	var data domain.User

	if err := ur.scanner.ScanFirst(rows, &data); err != nil {
		return domain.User{}, ur.notFound(err, notFound)
	}

	return data, nil
}

func (ur *UserRepository) notFound(err error, notFound *domain.NotFoundError) error {
	if errors.Is(err, database.ErrNoRows) {
		return notFound
	}

	slog.Error("Error scanning user", "error", err)
	return err
}

func (ur *UserRepository) execute(ctx context.Context, operation string, stmt sq.Sqlizer) ([]port.Row, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, operation, usersTable, nil)
	defer span.End()

	start := time.Now()
	rows, err := ur.db.Execute(ctx, stmt)
	ur.telemetry.RecordRepositoryOperation(ctx, operation, usersTable, time.Since(start), err)

	if err == nil {
		span.SetAttributes(map[string]interface{}{"db.rows": len(rows)})
	}

	return rows, err
}

func nullable(value *string) interface{} {
	if value == nil {
		return nil
	}

	return *value
}
