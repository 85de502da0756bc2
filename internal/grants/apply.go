package grants

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Execer runs a statement. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply executes stmts in order and stops at the first failure. It returns
// how many statements succeeded. Privilege statements commit implicitly, so
// no transaction is used.
func Apply(ctx context.Context, db Execer, stmts []string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("statement %d (%s): %w", i+1, stmt, err)
		}

		logger.Debug("applied", slog.String("stmt", stmt))
	}

	return len(stmts), nil
}
