package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath overrides the config file path.
const EnvPath = "MAGECOMBAT_CONFIG"

// DefaultPath is used when EnvPath is not set.
const DefaultPath = "config/combatsim.yaml"

// Server holds all configuration for the combat simulation.
type Server struct {
	LogLevel string `yaml:"log_level"` // debug|info|warn|error

	// Simulation
	TickInterval time.Duration `yaml:"tick_interval"`
	CommandQueue int           `yaml:"command_queue"`
	Seed         uint64        `yaml:"seed"` // 0 = random

	// Replication
	ReplicationQueue int `yaml:"replication_queue"`

	// Game data; empty means the embedded registry.
	RegistryPath string `yaml:"registry_path"`

	// Database
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
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

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel:         "info",
		TickInterval:     100 * time.Millisecond,
		CommandQueue:     1024,
		ReplicationQueue: 256,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "magecombat",
			Password: "magecombat",
			DBName:   "magecombat",
			SSLMode:  "disable",
		},
	}
}

// Path returns the config path from EnvPath or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

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

// Validate checks value ranges.
func (s Server) Validate() error {
	var errs []error
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", s.LogLevel))
	}
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %v", s.TickInterval))
	}
	if s.CommandQueue <= 0 {
		errs = append(errs, fmt.Errorf("command_queue must be positive, got %d", s.CommandQueue))
	}
	if s.ReplicationQueue <= 0 {
		errs = append(errs, fmt.Errorf("replication_queue must be positive, got %d", s.ReplicationQueue))
	}
	return errors.Join(errs...)
}
