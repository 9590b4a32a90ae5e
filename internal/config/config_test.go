package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:    "a-development-secret-that-is-long-enough",
		Port:         "8460",
		DBPassword:   "password",
		DBSSLMode:    "disable",
		Env:          "development",
		FeedPageSize: 2,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid development config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive feed page size", func(t *testing.T) {
		cfg := validConfig()
		cfg.FeedPageSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects default secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects short secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "short-secret"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects weak db password", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "a-production-secret-that-is-long-enough!"
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("valid production config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "a-production-secret-that-is-long-enough!"
		cfg.DBPassword = "sufficiently-strong-password"
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8460", cfg.Port)
	assert.Equal(t, "glimpse", cfg.DBName)
	assert.Equal(t, 2, cfg.FeedPageSize)
}
