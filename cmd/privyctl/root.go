// Command privyctl manages Privy server wallets from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	privy "github.com/scionx/privy-go"
)

// Config holds the process streams used by the CLI.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process's standard streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// run executes the command line args (including the program name).
func run(args []string, cfg Config) error {
	root := newRootCmd(cfg)
	if len(args) > 1 {
		root.SetArgs(args[1:])
	} else {
		root.SetArgs([]string{})
	}
	return root.ExecuteContext(context.Background())
}

// app is the state shared by all subcommands of one invocation.
type app struct {
	cfg      Config
	settings *settings
	logger   *zap.Logger
}

func newRootCmd(cfg Config) *cobra.Command {
	a := &app{cfg: cfg, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "privyctl",
		Short: "Manage Privy server wallets",
		Long: `privyctl talks to the Privy wallet API.

Credentials and defaults are read, in increasing order of precedence, from
privyctl.yaml (current directory or $HOME/.config/privyctl), a .env file,
PRIVY_* environment variables and flags.

Examples:
  # List Ethereum wallets as YAML
  privyctl wallets list --chain-type ethereum -o yaml

  # Export a wallet's private key, signing with an authorization key
  PRIVY_AUTHORIZATION_KEY=wallet-auth:MIGH... privyctl wallets export <wallet-id>

  # Create a recipient key pair for manual export decryption
  privyctl keys generate`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(s.Log, a.cfg.Stderr)
			if err != nil {
				return err
			}
			a.settings = s
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	addSettingsFlags(root.PersistentFlags())

	root.AddCommand(
		newWalletsCmd(a),
		newKeysCmd(a),
		newSignCmd(a),
		newVersionCmd(a),
	)
	return root
}

// client builds an SDK client from the loaded settings.
func (a *app) client() (*privy.Client, error) {
	s := a.settings
	opts := []privy.Option{privy.WithLogger(a.logger)}
	if s.BaseURL != "" {
		opts = append(opts, privy.WithBaseURL(s.BaseURL))
	}
	if s.Timeout > 0 {
		opts = append(opts, privy.WithTimeout(s.Timeout))
	}
	if s.AuthorizationKey != "" {
		opts = append(opts, privy.WithAuthorizationKey(s.AuthorizationKey))
	}

	client, err := privy.New(s.AppID, s.AppSecret, opts...)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the SDK version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.cfg.Stdout, privy.Version)
			return err
		},
	}
}
