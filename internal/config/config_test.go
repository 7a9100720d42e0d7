package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasksh/internal/config"
)

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "tasksh"), config.DefaultConfigDir())
}

func TestLoad_NoSettingsFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, config.DefaultAPIURL, cfg.APIURL)
	assert.False(t, cfg.Debug)
	assert.Zero(t, cfg.RequestTimeout)
	assert.NoFileExists(t, cfg.CredentialPath())
}

func TestLoad_JSONCSettings(t *testing.T) {
	dir := t.TempDir()
	content := `{
	// local mock server
	"api_url": "http://localhost:9000",
	"editor": "nano",
	"pager": "more",
	"debug": true,
	"request_timeout": "15s", // trailing comma is fine
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte(content), 0600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.APIURL)
	assert.Equal(t, "nano", cfg.Editor)
	assert.Equal(t, "more", cfg.Pager)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoad_InvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{api_url: `},
		{"bad timeout", `{"request_timeout": "soon"}`},
		{"negative timeout", `{"request_timeout": "-1s"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte(tt.content), 0600))

			_, err := config.Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestPaths(t *testing.T) {
	cfg, err := config.New("/cfg")
	require.NoError(t, err)

	assert.Equal(t, "/cfg/api_key", cfg.CredentialPath())
	assert.Equal(t, "/cfg/history", cfg.HistoryPath())
	assert.Equal(t, "/cfg/config.jsonc", cfg.SettingsPath())
}
