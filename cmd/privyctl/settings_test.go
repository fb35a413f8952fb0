package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadFor parses args into a command carrying the settings flags and
// resolves its settings.
func loadFor(t *testing.T, args ...string) (*settings, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	addSettingsFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return loadSettings(cmd)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	cfgPath := writeFile(t, "privyctl.yaml", "")

	s, err := loadFor(t, "--config", cfgPath, "--env-file", "")
	require.NoError(t, err)
	assert.Equal(t, "json", s.Output)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
	assert.Equal(t, 50, s.Log.MaxSizeMB)
	assert.Zero(t, s.Timeout)
}

func TestLoadSettings_Precedence(t *testing.T) {
	cfgPath := writeFile(t, "privyctl.yaml", `
app_id: file-app
app_secret: file-secret
base_url: https://file.example
timeout: 5s
log:
  level: debug
  max_size_mb: 10
`)
	t.Setenv("PRIVY_APP_ID", "")
	t.Setenv("PRIVY_APP_SECRET", "env-secret")
	t.Setenv("PRIVY_LOG_FORMAT", "json")

	s, err := loadFor(t, "--config", cfgPath, "--env-file", "", "--base-url", "https://flag.example")
	require.NoError(t, err)
	assert.Equal(t, "file-app", s.AppID)
	assert.Equal(t, "env-secret", s.AppSecret)
	assert.Equal(t, "https://flag.example", s.BaseURL)
	assert.Equal(t, 5*time.Second, s.Timeout)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)
	assert.Equal(t, 10, s.Log.MaxSizeMB)
}

func TestLoadSettings_DotEnv(t *testing.T) {
	cfgPath := writeFile(t, "privyctl.yaml", "")
	envPath := writeFile(t, ".env", "PRIVY_APP_ID=dotenv-app\nPRIVY_AUTHORIZATION_KEY=wallet-auth:abc\n")
	// Register for cleanup; godotenv sets the variables with os.Setenv.
	t.Setenv("PRIVY_APP_ID", "")
	t.Setenv("PRIVY_AUTHORIZATION_KEY", "")
	require.NoError(t, os.Unsetenv("PRIVY_APP_ID"))
	require.NoError(t, os.Unsetenv("PRIVY_AUTHORIZATION_KEY"))

	s, err := loadFor(t, "--config", cfgPath, "--env-file", envPath)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-app", s.AppID)
	assert.Equal(t, "wallet-auth:abc", s.AuthorizationKey)
}

func TestLoadSettings_MissingDotEnvIgnored(t *testing.T) {
	cfgPath := writeFile(t, "privyctl.yaml", "")
	_, err := loadFor(t, "--config", cfgPath, "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadSettings_Errors(t *testing.T) {
	cfgPath := writeFile(t, "privyctl.yaml", "")

	tests := []struct {
		name string
		args []string
	}{
		{"bad output", []string{"--config", cfgPath, "-o", "xml"}},
		{"bad log format", []string{"--config", cfgPath, "--log-format", "logfmt"}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"malformed config", []string{"--config", writeFile(t, "bad.yaml", "app_id: [")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFor(t, append(tt.args, "--env-file", "")...)
			assert.Error(t, err)
		})
	}
}
