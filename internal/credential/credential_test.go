package credential_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasksh/internal/config"
	"tasksh/internal/credential"
)

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.New(filepath.Join(t.TempDir(), "tasksh"))
	require.NoError(t, err)
	return cfg
}

func TestGetOrPrompt_ReadsStoredKey(t *testing.T) {
	cfg := newConfig(t)
	require.NoError(t, cfg.EnsureDir())
	require.NoError(t, os.WriteFile(cfg.CredentialPath(), []byte("  0/abc123\n"), 0o600))

	var out bytes.Buffer
	key, err := credential.GetOrPrompt(cfg, strings.NewReader("ignored\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "0/abc123", key)
	assert.Empty(t, out.String(), "no prompt when a key is stored")
}

func TestGetOrPrompt_PromptsAndSaves(t *testing.T) {
	cfg := newConfig(t)

	var out bytes.Buffer
	key, err := credential.GetOrPrompt(cfg, strings.NewReader("  0/secret \n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "0/secret", key)
	assert.Contains(t, out.String(), "Enter your API key")

	data, err := os.ReadFile(cfg.CredentialPath())
	require.NoError(t, err)
	assert.Equal(t, "0/secret\n", string(data))

	info, err := os.Stat(cfg.CredentialPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := credential.GetOrPrompt(cfg, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "0/secret", again)
}

func TestGetOrPrompt_KeyWithoutTrailingNewline(t *testing.T) {
	cfg := newConfig(t)

	key, err := credential.GetOrPrompt(cfg, strings.NewReader("0/eof"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "0/eof", key)
}

func TestGetOrPrompt_EmptyInput(t *testing.T) {
	cfg := newConfig(t)

	_, err := credential.GetOrPrompt(cfg, strings.NewReader("\n"), &bytes.Buffer{})
	require.ErrorIs(t, err, credential.ErrNoCredential)
	assert.NoFileExists(t, cfg.CredentialPath(), "nothing should be written")
}

func TestLoad_BlankFile(t *testing.T) {
	cfg := newConfig(t)
	require.NoError(t, cfg.EnsureDir())
	require.NoError(t, os.WriteFile(cfg.CredentialPath(), []byte("\n\n"), 0o600))

	_, err := credential.Load(cfg)
	assert.ErrorIs(t, err, credential.ErrNoCredential)
}
