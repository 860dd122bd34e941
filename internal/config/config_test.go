package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEngine_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadEngine(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultEngine(), cfg)
}

func TestLoadEngine_OverridesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aisim.yaml")
	content := `
log_level: debug
debug_ship: Alpha 1
tick_rate: 60
skill_level: 4
goal_check_interval: 1s
mission:
  source: db
  name: ambush
hud:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadEngine(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Alpha 1", cfg.DebugShip)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 4, cfg.SkillLevel)
	assert.Equal(t, time.Second, cfg.GoalCheckInterval)
	assert.Equal(t, "db", cfg.Mission.Source)
	assert.Equal(t, "ambush", cfg.Mission.Name)
	assert.False(t, cfg.HUD.Enabled)

	// Untouched fields keep defaults.
	assert.Equal(t, 1000, cfg.PathArenaSize)
	assert.Equal(t, "shipai", cfg.Database.User)
}

func TestLoadEngine_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "tick_rate: [1"},
		{"zero tick rate", "tick_rate: 0"},
		{"skill out of range", "skill_level: 7"},
		{"unknown mission source", "mission:\n  source: ftp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "aisim.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := LoadEngine(path)
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", d.DSN())
}

func TestConfigPath_Env(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", ConfigPath())

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultConfigPath, ConfigPath())
}
