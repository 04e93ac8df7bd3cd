package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dremioauth/internal/oauth"
)

var configEnvVars = []string{
	"DREMIO_CLIENT_ID",
	"DREMIO_REDIRECT_URI",
	"DREMIO_AUTH_URL",
	"DREMIO_TOKEN_URL",
	"DREMIO_TOKEN_REQUEST_ENCODING",
	"DREMIO_AUTH_TIMEOUT",
	"DREMIO_OPEN_BROWSER",
	"LOG_LEVEL",
	"LOG_FILE",
}

// clearConfigEnv unsets every variable LoadConfig reads and restores them afterwards.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	clearConfigEnv(t)
	tempDir := t.TempDir()

	cfg, err := LoadConfig(tempDir, filepath.Join(tempDir, ".env"))
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.Equal(t, "http://localhost:8000/callback", cfg.OAuth.RedirectURI)
	assert.Equal(t, 5*time.Minute, cfg.OAuth.Timeout)
	assert.True(t, cfg.OAuth.OpenBrowser)
	assert.Empty(t, cfg.OAuth.ClientID)
}

func TestLoadConfig_EmptyPathsSkipFiles(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	clearConfigEnv(t)
	tempDir := t.TempDir()
	writeFile(t, tempDir, configFileName, `
oauth:
  clientId: file-client
  tokenRequestEncoding: form
  timeout: 90s
  openBrowser: false
logging:
  level: debug
`)

	cfg, err := LoadConfig(tempDir, "")
	require.NoError(t, err)

	assert.Equal(t, "file-client", cfg.OAuth.ClientID)
	assert.Equal(t, "form", cfg.OAuth.TokenRequestEncoding)
	assert.Equal(t, 90*time.Second, cfg.OAuth.Timeout)
	assert.False(t, cfg.OAuth.OpenBrowser)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultTokenURL, cfg.OAuth.TokenURL)
	assert.Equal(t, DefaultRedirectURI, cfg.OAuth.RedirectURI)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	tempDir := t.TempDir()
	writeFile(t, tempDir, configFileName, "oauth:\n  clientId: file-client\n")

	t.Setenv("DREMIO_CLIENT_ID", "env-client")
	t.Setenv("DREMIO_AUTH_TIMEOUT", "30s")
	t.Setenv("DREMIO_OPEN_BROWSER", "false")
	t.Setenv("LOG_FILE", "/tmp/dremio-auth.log")

	cfg, err := LoadConfig(tempDir, "")
	require.NoError(t, err)

	assert.Equal(t, "env-client", cfg.OAuth.ClientID)
	assert.Equal(t, 30*time.Second, cfg.OAuth.Timeout)
	assert.False(t, cfg.OAuth.OpenBrowser)
	assert.Equal(t, "/tmp/dremio-auth.log", cfg.Logging.File)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	clearConfigEnv(t)
	tempDir := t.TempDir()
	envFile := writeFile(t, tempDir, ".env", "DREMIO_CLIENT_ID=dotenv-client\nDREMIO_TOKEN_URL=https://login.example.com/oauth/token\n")

	cfg, err := LoadConfig("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-client", cfg.OAuth.ClientID)
	assert.Equal(t, "https://login.example.com/oauth/token", cfg.OAuth.TokenURL)
}

func TestLoadConfig_ProcessEnvWinsOverDotEnv(t *testing.T) {
	clearConfigEnv(t)
	tempDir := t.TempDir()
	envFile := writeFile(t, tempDir, ".env", "DREMIO_CLIENT_ID=dotenv-client\n")
	t.Setenv("DREMIO_CLIENT_ID", "process-client")

	cfg, err := LoadConfig("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "process-client", cfg.OAuth.ClientID)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, dir string) (string, string)
		errorType string
	}{
		{
			name: "malformed yaml",
			setup: func(t *testing.T, dir string) (string, string) {
				writeFile(t, dir, configFileName, "oauth: [unterminated")
				return dir, ""
			},
			errorType: ErrorTypeParse,
		},
		{
			name: "config path is a directory",
			setup: func(t *testing.T, dir string) (string, string) {
				require.NoError(t, os.Mkdir(filepath.Join(dir, configFileName), 0755))
				return dir, ""
			},
			errorType: ErrorTypeIO,
		},
		{
			name: "invalid duration in env",
			setup: func(t *testing.T, dir string) (string, string) {
				t.Setenv("DREMIO_AUTH_TIMEOUT", "soon")
				return dir, ""
			},
			errorType: ErrorTypeEnv,
		},
		{
			name: "unknown encoding",
			setup: func(t *testing.T, dir string) (string, string) {
				t.Setenv("DREMIO_TOKEN_REQUEST_ENCODING", "xml")
				return dir, ""
			},
			errorType: ErrorTypeValidation,
		},
		{
			name: "unknown log level",
			setup: func(t *testing.T, dir string) (string, string) {
				writeFile(t, dir, configFileName, "logging:\n  level: chatty\n")
				return dir, ""
			},
			errorType: ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			configPath, envFile := tt.setup(t, t.TempDir())

			_, err := LoadConfig(configPath, envFile)
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigurationError, got %T", err)
			assert.Equal(t, tt.errorType, cfgErr.ErrorType)
		})
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()

	osUserHomeDir = func() (string, error) { return "/home/tester", nil }
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "dremio-auth"), path)

	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	_, err = GetDefaultConfigPath()
	assert.Error(t, err)
}

func TestConfig_AuthConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.OAuth.ClientID = "client-123"

	authCfg := cfg.AuthConfig()

	assert.Equal(t, oauth.AuthConfig{
		ClientID:              "client-123",
		RedirectURI:           DefaultRedirectURI,
		AuthorizationEndpoint: DefaultAuthorizationURL,
		TokenEndpoint:         DefaultTokenURL,
		TokenRequestEncoding:  oauth.EncodingJSON,
	}, authCfg)
	assert.NoError(t, authCfg.Validate())
}
