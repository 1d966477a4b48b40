package config

import (
	"path/filepath"
	"testing"
	"time"

	"agroverse/logx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, logx.Development, cfg.Env)
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, "user1", cfg.UserID)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, uint(3), cfg.Retry.MaxAttempts)
	assert.Equal(t, ":8080", cfg.Proxy.Port)
	assert.Equal(t, ".agroverse", filepath.Base(filepath.Dir(cfg.StorePath)))
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("AGROVERSE_API_BASE_URL", "https://api.example.com")
	t.Setenv("AGROVERSE_STORE_PATH", "/tmp/agroverse.json")
	t.Setenv("AGROVERSE_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("PORT", "9090")
	t.Setenv("NEWS_API_KEY", "server-side")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/agroverse.json", cfg.StorePath)
	assert.Equal(t, uint(5), cfg.Retry.MaxAttempts)
	assert.Equal(t, ":9090", cfg.Proxy.Port)
	assert.Equal(t, "server-side", cfg.Proxy.NewsAPIKey)
}

func TestFromEnvRejectsBadURL(t *testing.T) {
	t.Setenv("AGROVERSE_API_BASE_URL", "localhost")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "API_BASE_URL")
}
