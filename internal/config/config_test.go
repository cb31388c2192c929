package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, http.StatusTemporaryRedirect, cfg.RedirectStatusCode)
	assert.False(t, cfg.RedirectWithQuery)
	assert.False(t, cfg.CaseSensitive)
	assert.Equal(t, []string{"dashboard"}, cfg.ReserveSlug)
	assert.Equal(t, time.Minute, cfg.LinkCacheTTL)
	assert.Equal(t, StoreBadger, cfg.StoreBackend)
	assert.Equal(t, "access_logs", cfg.AnalyticsDataset)
	assert.Equal(t, 500*time.Millisecond, cfg.AnalyticsTimeout)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("SERVER_ADDRESS: \":9090\"\nREDIRECT_STATUS_CODE: 302\nSTORE_BACKEND: memory\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, http.StatusFound, cfg.RedirectStatusCode)
	assert.Equal(t, StoreInMemory, cfg.StoreBackend)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("SERVER_ADDRESS: \":9090\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	t.Setenv("SERVER_ADDRESS", ":7070")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerAddress)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non redirect status", "REDIRECT_STATUS_CODE", "200"},
		{"broken slug regex", "SLUG_REGEX", "(["},
		{"unknown backend", "STORE_BACKEND", "etcd"},
		{"negative cache ttl", "LINK_CACHE_TTL", "-1s"},
		{"zero analytics timeout", "ANALYTICS_TIMEOUT", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(t.TempDir())
			assert.Error(t, err)
		})
	}
}
