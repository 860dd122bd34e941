package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/db/migrations"
	"github.com/jg18/fs2open.github.com/internal/testutil"
)

func TestRunMigrations_ReportsSchemaVersion(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	version, err := RunMigrations(ctx, pool.Config().ConnString())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	again, err := RunMigrations(ctx, pool.Config().ConnString())
	require.NoError(t, err)
	assert.Equal(t, version, again, "already applied schema is left alone")

	var tracked bool
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT to_regclass($1) IS NOT NULL", migrations.VersionTable).Scan(&tracked))
	assert.True(t, tracked)

	var defaultTable bool
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT to_regclass('goose_db_version') IS NOT NULL").Scan(&defaultTable))
	assert.False(t, defaultTable)
}
