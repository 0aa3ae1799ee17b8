package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	migrations "userprofiles/db"
	"userprofiles/internal/adapter/database"
	"userprofiles/internal/core/port"
)

// DB is the SQLite gateway used for local development and tests.
type DB struct {
	*sql.DB
	QueryBuilder sq.StatementBuilderType
}

type options struct {
	logLevel zerolog.Level
	dbName   string
}

type Option func(*options)

// WithLogLevel sets the minimum level of the SQL statement log.
func WithLogLevel(level zerolog.Level) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

func WithDBName(name string) Option {
	return func(o *options) {
		o.dbName = name
	}
}

// ParseDSN strips the sqlite:// scheme used in DATABASE_URL.
func ParseDSN(url string) string {
	for _, prefix := range []string{"sqlite3://", "sqlite://"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}

	return url
}

// New opens the database, runs the embedded migrations on the same handle
// and returns the gateway. A single connection is kept open so that an
// in-memory database survives for the lifetime of the handle.
func New(dsn string, opts ...Option) (*DB, error) {
	o := options{logLevel: zerolog.InfoLevel, dbName: "userprofiles"}
	for _, opt := range opts {
		opt(&o)
	}

	dsn = ParseDSN(dsn)

	tracedDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName(o.dbName),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	logger := zerolog.New(os.Stdout).Level(o.logLevel).With().Timestamp().Logger()

	// Only the traced driver is kept; the handle otelsql opened has no
	// connections yet and is closed right away.
	tracedDriver := tracedDB.Driver()

	if err := tracedDB.Close(); err != nil {
		return nil, fmt.Errorf("close traced handle: %w", err)
	}

	sqlDB := sqldblogger.OpenDriver(dsn, tracedDriver, zerologadapter.New(logger),
		sqldblogger.WithSQLQueryAsMessage(true),
	)

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &DB{
		DB:           sqlDB,
		QueryBuilder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// RunMigrations applies the embedded SQLite migrations. The migrate
// instance is not closed since that would close db as well.
func RunMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrations.SQLiteMigrations, migrations.SQLiteMigrationsDir)

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (d *DB) Builder() sq.StatementBuilderType {
	return d.QueryBuilder
}

func (d *DB) Ping(ctx context.Context) error {
	return d.PingContext(ctx)
}

func (d *DB) Execute(ctx context.Context, stmt sq.Sqlizer) ([]port.Row, error) {
	query, args, err := stmt.ToSql()

	if err != nil {
		return nil, fmt.Errorf("build statement: %w", err)
	}

	tx, err := d.BeginTx(ctx, nil)

	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, translateError(err)
	}

	result, err := collectRows(rows)

	if err != nil {
		return nil, translateError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translateError(err)
	}

	return result, nil
}

func collectRows(rows *sql.Rows) ([]port.Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()

	if err != nil {
		return nil, err
	}

	result := []port.Row{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		scanArgs := make([]interface{}, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}

		row := make(port.Row, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func translateError(err error) error {
	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %w", database.ErrUniqueViolation, err)
	}

	return err
}
