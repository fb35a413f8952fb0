package main

import (
	"github.com/spf13/cobra"

	privy "github.com/scionx/privy-go"
)

func newKeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate key material",
	}
	cmd.AddCommand(newKeysGenerateCmd(a), newKeysNewAuthCmd(a))
	return cmd
}

type hpkeKeysOutput struct {
	PublicKey   string `json:"public_key"`
	PrivateKey  string `json:"private_key"`
	Ciphersuite string `json:"ciphersuite"`
}

func newKeysGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate an HPKE recipient key pair for raw exports",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			keys, err := privy.GenerateHPKEKeys()
			if err != nil {
				return err
			}
			return a.print(hpkeKeysOutput{
				PublicKey:   keys.PublicKey,
				PrivateKey:  keys.PrivateKey,
				Ciphersuite: privy.HPKECiphersuite,
			})
		},
	}
}

type authKeyOutput struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
}

func newKeysNewAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new-auth",
		Short: "Generate a P-256 authorization key",
		Long: `Generate a P-256 authorization key. The private key is printed in
"wallet-auth:" form for --authorization-key; register the public key with a
key quorum.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			key, err := privy.GenerateAuthorizationKey()
			if err != nil {
				return err
			}
			return a.print(authKeyOutput{PrivateKey: key.PrivateKey, PublicKey: key.PublicKey})
		},
	}
}
