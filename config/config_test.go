package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_JWTSecret(t *testing.T) {
	t.Run("production refuses to start without a secret", func(t *testing.T) {
		t.Setenv("GO_ENV", "production")
		t.Setenv("JWT_SECRET", "")

		cfg, err := Load()
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("production uses the configured secret", func(t *testing.T) {
		t.Setenv("GO_ENV", "production")
		t.Setenv("JWT_SECRET", "real-secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "real-secret", cfg.JWTSecret)
	})

	t.Run("development falls back to the dev secret", func(t *testing.T) {
		t.Setenv("GO_ENV", "development")
		t.Setenv("JWT_SECRET", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "dev-secret-do-not-use-in-production", cfg.JWTSecret)
	})
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("COUNT_CACHE_TTL_SECONDS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.NotEmpty(t, cfg.DBUrl)
	assert.Equal(t, "5m0s", cfg.CountCacheTTL.String())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}
