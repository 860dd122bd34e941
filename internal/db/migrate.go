package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jg18/fs2open.github.com/internal/db/migrations"
)

// RunMigrations brings the mission schema up to date on the given DSN and returns the
// applied schema version.
func RunMigrations(ctx context.Context, dsn string) (int64, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	version, err := migrations.Apply(ctx, sqlDB)
	if err != nil {
		return 0, err
	}
	slog.Info("mission schema ready", "version", version, "table", migrations.VersionTable)
	return version, nil
}
