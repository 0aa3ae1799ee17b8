package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T) (*Config, error) {
	t.Helper()

	v := viper.New()
	SetDefaults(v)

	return FromViper(v)
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "userprofiles", cfg.ServiceName)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "sqlite://userprofiles.db", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 9091, cfg.MetricsPort)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.EnforceHTTPS)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
}

func TestFromViper_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/users?sslmode=disable")
	t.Setenv("ENFORCE_HTTPS", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("METRICS_PORT", "0")

	cfg, err := load(t)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://app:secret@db:5432/users?sslmode=disable", cfg.DatabaseURL)
	assert.True(t, cfg.EnforceHTTPS)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0, cfg.MetricsPort)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"unknown environment": {"APP_ENV", "qa"},
		"unknown log level":   {"LOG_LEVEL", "trace"},
		"port out of range":   {"PORT", "70000"},
		"bad timeout":         {"SHUTDOWN_TIMEOUT", "soon"},
		"bad loki url":        {"LOKI_URL", "not a url"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])

			_, err := load(t)
			assert.Error(t, err)
		})
	}
}
