package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dremioauth/internal/config"
)

func TestConfigCommand_ShowsEffectiveSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("oauth:\n  tokenRequestEncoding: form\n"), 0644))
	t.Setenv("DREMIO_CLIENT_ID", "abcdefgh")

	stdout, stderr, err := executeCommand(t, "config", "--config-dir", dir, "--env-file", filepath.Join(dir, ".env"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "abcd****")
	assert.NotContains(t, stdout, "abcdefgh")
	assert.Contains(t, stdout, config.DefaultTokenURL)
	assert.Contains(t, stdout, "form")
	assert.Contains(t, stdout, "DREMIO_CLIENT_ID")
	assert.NotContains(t, stderr, "Warning")
}

func TestConfigCommand_WarnsWithoutClientID(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DREMIO_CLIENT_ID", "")

	stdout, stderr, err := executeCommand(t, "config", "--config-dir", dir, "--env-file", filepath.Join(dir, ".env"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "(not set)")
	assert.Contains(t, stderr, "client_id")
}

func TestConfigCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("oauth: [broken"), 0644))

	_, _, err := executeCommand(t, "config", "--config-dir", dir, "--env-file", filepath.Join(dir, ".env"))
	require.Error(t, err)
	assert.Equal(t, ExitCodeConfigError, getExitCode(err))
}

func TestConfigCommand_InvalidLogLevelFlag(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCommand(t, "config", "--config-dir", dir, "--env-file", filepath.Join(dir, ".env"), "--log-level", "chatty")
	require.Error(t, err)
	assert.Equal(t, ExitCodeConfigError, getExitCode(err))
}

func TestMaskClientID(t *testing.T) {
	assert.Contains(t, maskClientID(""), "(not set)")
	assert.Equal(t, "***", maskClientID("abc"))
	assert.Equal(t, "abcd****", maskClientID("abcdefgh"))
}
