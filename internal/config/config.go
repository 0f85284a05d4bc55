package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env        string         `yaml:"env" validate:"required"`
	Addr       string         `yaml:"addr" validate:"required"`
	APITimeout time.Duration  `yaml:"timeout" validate:"gt=0"`
	Database   DatabaseConfig `yaml:"database"`
	Logging    LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig describes the connection string and pool tuning.
// RecycleAfter bounds both the lifetime and the idle time of pooled connections.
type DatabaseConfig struct {
	URL          string        `yaml:"url" validate:"required"`
	MaxOpenConns int           `yaml:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int           `yaml:"max_idle_conns" validate:"gte=0"`
	RecycleAfter time.Duration `yaml:"recycle_after" validate:"gt=0"`
	PingTimeout  time.Duration `yaml:"ping_timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

const (
	DefaultRecycleAfter = 300 * time.Second
	DefaultPingTimeout  = 5 * time.Second
)

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Env:        getEnv("ZELAR_ENV", "development"),
		Addr:       getEnv("ZELAR_ADDR", ":8080"),
		APITimeout: 15 * time.Second,
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", "zelar.db"),
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			RecycleAfter: DefaultRecycleAfter,
			PingTimeout:  DefaultPingTimeout,
		},
		Logging: LoggingConfig{
			Level:  getEnv("ZELAR_LOG_LEVEL", "info"),
			Format: getEnv("ZELAR_LOG_FORMAT", "json"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks struct constraints and the relations between pool settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("invalid config: database.max_idle_conns (%d) exceeds database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
