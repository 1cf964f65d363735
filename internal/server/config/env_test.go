package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverridesValues(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DB_MAX_OPEN_CONNS", "42")
	t.Setenv("DB_CONN_MAX_LIFETIME", "2m")
	t.Setenv("JWT_ACCESS_SECRET", "env-access")
	t.Setenv("ACCESS_TOKEN_TTL", "20m")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECURE_COOKIES", "false")
	t.Setenv("PUBLIC_PATHS", " /login , /auth/ ,,")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, "")

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, 42, cfg.DBMaxOpenConns)
	assert.Equal(t, 2*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, "env-access", cfg.AccessTokenSecret)
	assert.Equal(t, "refreshSecretKey", cfg.RefreshTokenSecret)
	assert.Equal(t, 20*time.Minute, cfg.AccessTokenValidityDuration)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.CookieSecure())
	assert.Equal(t, []string{"/login", "/auth/"}, cfg.PublicPaths)
}

func TestParseEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_REFRESH_SECRET=from-file\nLOG_FORMAT=json\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("JWT_REFRESH_SECRET")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, path)

	assert.Equal(t, "from-file", cfg.RefreshTokenSecret)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParseEnv_MissingDotenvIsFine(t *testing.T) {
	cfg := &Config{}
	require.NotPanics(t, func() { parseEnv(cfg, filepath.Join(t.TempDir(), "nope.env")) })
}

func TestParseEnv_BadValuesPanic(t *testing.T) {
	for key, val := range map[string]string{
		"DB_MAX_IDLE_CONNS": "many",
		"REFRESH_TOKEN_TTL": "forever",
		"SECURE_COOKIES":    "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			require.Panics(t, func() { parseEnv(&Config{}, "") })
		})
	}
}
