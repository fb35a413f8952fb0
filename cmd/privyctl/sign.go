package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	privy "github.com/scionx/privy-go"
)

type signOutput struct {
	Signature string `json:"signature"`
	Payload   string `json:"payload"`
}

func newSignCmd(a *app) *cobra.Command {
	var method, url, body, key string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Compute a privy-authorization-signature for a request",
		Long: `Compute the privy-authorization-signature for a request without sending it.

--body takes a JSON document, @path to read one from a file, or - to read
from stdin. The key defaults to the configured authorization key.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if key == "" {
				key = a.settings.AuthorizationKey
			}
			if key == "" {
				return fmt.Errorf("an authorization key is required (--key or --authorization-key)")
			}
			if a.settings.AppID == "" {
				return fmt.Errorf("an app ID is required (--app-id)")
			}

			var payloadBody any
			if body != "" {
				raw, err := readBody(body, a.cfg.Stdin)
				if err != nil {
					return err
				}
				v, err := privy.ParseValue(raw)
				if err != nil {
					return fmt.Errorf("parse body: %w", err)
				}
				payloadBody = v
			}

			payload, err := privy.CanonicalSigningPayload(method, url, payloadBody, a.settings.AppID)
			if err != nil {
				return err
			}
			sig, err := privy.NewAuthorizationContext([]string{key}, nil).
				SignRequest(method, url, payloadBody, a.settings.AppID)
			if err != nil {
				return err
			}
			return a.print(signOutput{Signature: sig, Payload: string(payload)})
		},
	}
	cmd.Flags().StringVar(&method, "method", "POST", "HTTP method")
	cmd.Flags().StringVar(&url, "url", "", "full request URL")
	cmd.Flags().StringVar(&body, "body", "", "JSON body, @file or - for stdin")
	cmd.Flags().StringVar(&key, "key", "", "wallet-auth: key (default: --authorization-key)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func readBody(arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case arg == "-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		return os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		return []byte(arg), nil
	}
}
