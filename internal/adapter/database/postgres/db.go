package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	migrations "userprofiles/db"
	"userprofiles/internal/adapter/database"
	"userprofiles/internal/core/port"
)

const uniqueViolation = "23505"

// DB is the Postgres gateway. It holds no pool: every Execute opens its own
// connection and closes it before returning.
type DB struct {
	config       *pgx.ConnConfig
	url          string
	QueryBuilder sq.StatementBuilderType
}

func New(ctx context.Context, url string) (*DB, error) {
	if url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	config, err := pgx.ParseConfig(url)

	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	db := &DB{
		config:       config,
		url:          url,
		QueryBuilder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}

	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	if err := RunMigrations(url); err != nil {
		return nil, err
	}

	return db, nil
}

func RunMigrations(dbURL string) error {
	sqlDB, err := sql.Open("pgx", dbURL)

	if err != nil {
		return err
	}

	defer sqlDB.Close()

	driver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrations.PostgresMigrations, migrations.PostgresMigrationsDir)

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (d *DB) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, d.config.Copy())

	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	return conn, nil
}

func (d *DB) Builder() sq.StatementBuilderType {
	return d.QueryBuilder
}

func (d *DB) Ping(ctx context.Context) error {
	conn, err := d.connect(ctx)

	if err != nil {
		return err
	}

	defer conn.Close(context.WithoutCancel(ctx))

	return conn.Ping(ctx)
}

func (d *DB) Close() error {
	return nil
}

func (d *DB) Execute(ctx context.Context, stmt sq.Sqlizer) ([]port.Row, error) {
	query, args, err := stmt.ToSql()

	if err != nil {
		return nil, fmt.Errorf("build statement: %w", err)
	}

	conn, err := d.connect(ctx)

	if err != nil {
		return nil, err
	}

	defer conn.Close(context.WithoutCancel(ctx))

	tx, err := conn.Begin(ctx)

	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	defer tx.Rollback(context.WithoutCancel(ctx))

	rows, err := tx.Query(ctx, query, args...)

	if err != nil {
		return nil, translateError(err)
	}

	result, err := collectRows(rows)

	if err != nil {
		return nil, translateError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError(err)
	}

	return result, nil
}

func collectRows(rows pgx.Rows) ([]port.Row, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := []port.Row{}

	for rows.Next() {
		values, err := rows.Values()

		if err != nil {
			return nil, err
		}

		row := make(port.Row, len(fields))
		for i, field := range fields {
			row[field.Name] = values[i]
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %w", database.ErrUniqueViolation, err)
	}

	return err
}
