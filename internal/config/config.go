// Package config loads the engine configuration: YAML file with sane
// defaults, overridable through SETTLE_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full engine configuration.
type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Log       LogConfig      `mapstructure:"log"`
	Audit     AuditConfig    `mapstructure:"audit"`
	Cache     CacheConfig    `mapstructure:"cache"`
	Calendars []SeedCalendar `mapstructure:"calendars"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AuditConfig configures the asynchronous audit persistence path.
type AuditConfig struct {
	DSN          string        `mapstructure:"dsn"`
	BufferSize   int           `mapstructure:"buffer_size"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// CacheConfig bounds the business-day memo cache.
type CacheConfig struct {
	MaxEntries int64 `mapstructure:"max_entries"`
}

// SeedCalendar bootstraps a jurisdiction calendar at startup, before any
// calendar-feed registration arrives.
type SeedCalendar struct {
	Jurisdiction string   `mapstructure:"jurisdiction"`
	Holidays     []string `mapstructure:"holidays"`
	WeekendDays  []string `mapstructure:"weekend_days"`
}

// LoadConfig reads configuration from path (optional) and the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("audit.dsn", "audit.db")
	v.SetDefault("audit.buffer_size", 4096)
	v.SetDefault("audit.max_attempts", 5)
	v.SetDefault("audit.retry_backoff", 100*time.Millisecond)
	v.SetDefault("cache.max_entries", 16384)

	v.SetEnvPrefix("SETTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	} else {
		v.SetConfigName("settlement")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
