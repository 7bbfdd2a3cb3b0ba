// Package config loads and validates the server's runtime configuration,
// layering a config file, environment variables, and command-line flags
// via Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all configuration for the cache server.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	MaxConnections int `mapstructure:"max_connections"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Host:           "127.0.0.1",
		Port:           7878,
		MaxConnections: 250,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// LoadConfig loads configuration from an optional config file, environment
// variables prefixed GOFASTCACHE_, and whatever v already has bound to
// command-line flags. Flags bound into v take precedence over the file and
// environment, matching Viper's usual precedence order.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("gofast-cache")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/gofast-cache/")
	v.AddConfigPath("$HOME/.gofast-cache")

	v.SetEnvPrefix("GOFASTCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("max_connections", cfg.MaxConnections)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	return cfg, nil
}

var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal"}
var validLogFormats = []string{"text", "json"}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 0-65535)", c.Port)
	}
	if c.MaxConnections < 1 {
		return fmt.Errorf("max_connections must be at least 1")
	}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format: %s (must be one of: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}
	return nil
}

// BindAddr returns the host:port pair the server should listen on.
func (c *Config) BindAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) String() string {
	return fmt.Sprintf("gofast-cache config: %s, max_connections=%d, log_level=%s", c.BindAddr(), c.MaxConnections, c.LogLevel)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
