package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// migrations turns the registry into one goose Go migration per schema
// version. Step N only creates what was declared with Since == N.
func migrations(reg *Registry) []*goose.Migration {
	out := make([]*goose.Migration, 0, reg.Version())
	for v := int64(1); v <= reg.Version(); v++ {
		stmts := reg.statements(v)
		out = append(out, goose.NewGoMigration(v, &goose.GoFunc{
			RunTx: func(ctx context.Context, tx *sql.Tx) error {
				for _, s := range stmts {
					if _, err := tx.ExecContext(ctx, s); err != nil {
						return fmt.Errorf("schema v%d: %w", v, err)
					}
				}
				return nil
			},
		}, nil))
	}
	return out
}

// migrate applies all pending schema versions and returns the version the
// database ends up at.
func migrate(ctx context.Context, db *sql.DB, reg *Registry) (int64, error) {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, nil,
		goose.WithGoMigrations(migrations(reg)...),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	// p.Close would close db, which the engine still owns.

	if _, err := p.Up(ctx); err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return p.GetDBVersion(ctx)
}
