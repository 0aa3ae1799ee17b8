package port

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Gateway runs exactly one statement per call inside its own transaction and
// commits before returning. On error nothing the statement did is visible.
type Gateway interface {
	Execute(ctx context.Context, stmt sq.Sqlizer) ([]Row, error)
	Builder() sq.StatementBuilderType
	Ping(ctx context.Context) error
	Close() error
}
