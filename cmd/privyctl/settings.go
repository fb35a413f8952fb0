package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// settings is the resolved CLI configuration.
type settings struct {
	AppID            string        `mapstructure:"app_id"`
	AppSecret        string        `mapstructure:"app_secret"`
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	AuthorizationKey string        `mapstructure:"authorization_key"`
	Output           string        `mapstructure:"output"`
	Log              logSettings   `mapstructure:"log"`
}

// logSettings configures the CLI logger.
type logSettings struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// File, when set, receives logs instead of stderr and is rotated.
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// settingsFlags maps config keys to the persistent flags that override them.
var settingsFlags = map[string]string{
	"app_id":            "app-id",
	"app_secret":        "app-secret",
	"base_url":          "base-url",
	"timeout":           "timeout",
	"authorization_key": "authorization-key",
	"output":            "output",
	"log.level":         "log-level",
	"log.format":        "log-format",
	"log.file":          "log-file",
}

func addSettingsFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: privyctl.yaml in . or $HOME/.config/privyctl)")
	fs.String("env-file", ".env", "dotenv file loaded before reading the environment")
	fs.String("app-id", "", "Privy app ID (or PRIVY_APP_ID)")
	fs.String("app-secret", "", "Privy app secret (or PRIVY_APP_SECRET)")
	fs.String("base-url", "", "API base URL (or PRIVY_BASE_URL)")
	fs.Duration("timeout", 0, "HTTP timeout (default 30s)")
	fs.String("authorization-key", "", "wallet-auth: key used to sign wallet requests (or PRIVY_AUTHORIZATION_KEY)")
	fs.StringP("output", "o", "json", "output format: json or yaml")
	fs.String("log-level", "warn", "log level: debug, info, warn, error")
	fs.String("log-format", "console", "log format: console or json")
	fs.String("log-file", "", "write logs to a rotated file instead of stderr")
}

// loadSettings resolves configuration from defaults, the config file, a
// dotenv file, PRIVY_* environment variables and flags.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()

	if envFile, _ := flags.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("privyctl")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "privyctl"))
		}
	}

	v.SetEnvPrefix("PRIVY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, name := range settingsFlags {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// setDefaults registers every key so environment variables are seen by
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app_id", "")
	v.SetDefault("app_secret", "")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", "0s")
	v.SetDefault("authorization_key", "")
	v.SetDefault("output", "json")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
}

func (s *settings) validate() error {
	switch s.Output {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q: want json or yaml", s.Output)
	}
	switch strings.ToLower(s.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: want console or json", s.Log.Format)
	}
	return nil
}
