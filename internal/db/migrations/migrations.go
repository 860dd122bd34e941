// Package migrations embeds the goose SQL migrations for the mission store.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// VersionTable records applied mission schema versions.
const VersionTable = "mission_schema_version"

// Apply runs every pending migration and returns the schema version now in place.
func Apply(ctx context.Context, sqlDB *sql.DB) (int64, error) {
	goose.SetBaseFS(FS)
	goose.SetTableName(VersionTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return 0, fmt.Errorf("applying mission schema: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("reading mission schema version: %w", err)
	}
	return version, nil
}
