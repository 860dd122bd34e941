package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "SHIPAI_CONFIG"

// DefaultConfigPath is used when EnvConfigPath is unset.
const DefaultConfigPath = "config/aisim.yaml"

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// HUDConfig controls the read-only websocket feed.
type HUDConfig struct {
	Enabled         bool          `yaml:"enabled"`
	BindAddress     string        `yaml:"bind_address"`
	PublishInterval time.Duration `yaml:"publish_interval"`
}

// Tables points at data table overrides. Empty paths use the embedded defaults.
type Tables struct {
	AIClasses   string `yaml:"ai_classes"`
	AIProfiles  string `yaml:"ai_profiles"`
	ShipClasses string `yaml:"ship_classes"`
}

// Mission selects where the mission comes from.
type Mission struct {
	Source string `yaml:"source"` // "file" or "db"
	Path   string `yaml:"path"`
	Name   string `yaml:"name"`
}

// Engine holds all configuration for the AI simulator.
type Engine struct {
	LogLevel string `yaml:"log_level"`
	// DebugShip limits AI debug lines to one ship when log_level is debug.
	DebugShip string `yaml:"debug_ship"`

	// Simulation
	TickRate          int           `yaml:"tick_rate"` // ticks per second
	SkillLevel        int           `yaml:"skill_level"`
	AIProfile         string        `yaml:"ai_profile"`
	MaxAISlots        int           `yaml:"max_ai_slots"`
	MaxObjects        int           `yaml:"max_objects"`
	PathArenaSize     int           `yaml:"path_arena_size"`
	GoalCheckInterval time.Duration `yaml:"goal_check_interval"`
	Seed              uint64        `yaml:"seed"`

	Tables   Tables         `yaml:"tables"`
	Mission  Mission        `yaml:"mission"`
	Database DatabaseConfig `yaml:"database"`
	HUD      HUDConfig      `yaml:"hud"`
}

// DefaultEngine returns Engine config with sensible defaults.
func DefaultEngine() Engine {
	return Engine{
		LogLevel:          "info",
		TickRate:          30,
		SkillLevel:        2,
		AIProfile:         "default",
		MaxAISlots:        500,
		MaxObjects:        2000,
		PathArenaSize:     1000,
		GoalCheckInterval: 500 * time.Millisecond,
		Seed:              1,
		Mission: Mission{
			Source: "file",
			Path:   "missions/skirmish.yaml",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "shipai",
			Password: "shipai",
			DBName:   "shipai",
			SSLMode:  "disable",
		},
		HUD: HUDConfig{
			Enabled:         true,
			BindAddress:     "127.0.0.1:8088",
			PublishInterval: 250 * time.Millisecond,
		},
	}
}

// LoadEngine loads engine config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadEngine(path string) (Engine, error) {
	cfg := DefaultEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks ranges that the engine cannot recover from.
func (e Engine) Validate() error {
	if e.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", e.TickRate)
	}
	if e.SkillLevel < 0 || e.SkillLevel > 4 {
		return fmt.Errorf("skill_level must be 0..4, got %d", e.SkillLevel)
	}
	if e.PathArenaSize <= 0 {
		return fmt.Errorf("path_arena_size must be positive, got %d", e.PathArenaSize)
	}
	switch e.Mission.Source {
	case "file", "db":
	default:
		return fmt.Errorf("mission.source must be file or db, got %q", e.Mission.Source)
	}
	return nil
}

// ConfigPath returns the config file path, honouring SHIPAI_CONFIG.
func ConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath
}
