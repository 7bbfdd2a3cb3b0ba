package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	v := viper.New()
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 7878, cfg.Port)
	assert.Equal(t, 250, cfg.MaxConnections)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigHonoursExplicitSet(t *testing.T) {
	v := viper.New()
	v.Set("port", 9000)
	v.Set("max_connections", 1)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 1, cfg.MaxConnections)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveMaxConnections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConnections = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestBindAddrFormatsHostPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 7878
	assert.Equal(t, "0.0.0.0:7878", cfg.BindAddr())
}
