package server

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the HTTP server settings.
//
// Precedence is defaults, then the optional YAML file, then environment
// variables. Defaults live in DefaultConfig rather than envDefault tags
// so that env.Parse never clobbers values read from the file.
type Config struct {
	Addr            string        `env:"FIELDGATE_ADDR" yaml:"addr"`
	ReadTimeout     time.Duration `env:"FIELDGATE_READ_TIMEOUT" yaml:"read_timeout"`
	WriteTimeout    time.Duration `env:"FIELDGATE_WRITE_TIMEOUT" yaml:"write_timeout"`
	IdleTimeout     time.Duration `env:"FIELDGATE_IDLE_TIMEOUT" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `env:"FIELDGATE_SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `env:"FIELDGATE_MAX_BODY_BYTES" yaml:"max_body_bytes"`
	DBPath          string        `env:"FIELDGATE_DB_PATH" yaml:"db_path"`
	AuditDisabled   bool          `env:"FIELDGATE_AUDIT_DISABLED" yaml:"audit_disabled"`
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxBodyBytes:    1 << 20,
		DBPath:          "fieldgate.db",
	}
}

// LoadConfig builds the config from defaults, an optional YAML file,
// and environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}
