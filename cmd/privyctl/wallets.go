package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	privy "github.com/scionx/privy-go"
)

func newWalletsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "List, inspect, create and export wallets",
	}
	cmd.AddCommand(
		newWalletsListCmd(a),
		newWalletsGetCmd(a),
		newWalletsCreateCmd(a),
		newWalletsBalanceCmd(a),
		newWalletsTransactionsCmd(a),
		newWalletsExportCmd(a),
		newWalletsSign7702Cmd(a),
		newWalletsTxStatusCmd(a),
		newWalletsWaitTxCmd(a),
	)
	return cmd
}

// signingOptions returns per-request signing options from the --signature
// flag.
func signingOptions(cmd *cobra.Command) []privy.RequestOption {
	if sig, _ := cmd.Flags().GetString("signature"); sig != "" {
		return []privy.RequestOption{privy.WithAuthorizationSignature(sig)}
	}
	return nil
}

func addSignatureFlag(cmd *cobra.Command) {
	cmd.Flags().String("signature", "", "precomputed privy-authorization-signature (overrides --authorization-key)")
}

func newWalletsListCmd(a *app) *cobra.Command {
	var params privy.ListWalletsParams
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			list, err := client.Wallets.List(cmd.Context(), params)
			if err != nil {
				return err
			}
			return a.print(list)
		},
	}
	cmd.Flags().StringVar(&params.ChainType, "chain-type", "", "filter by chain type (ethereum, solana)")
	cmd.Flags().StringVar(&params.UserID, "user-id", "", "filter by owning user")
	cmd.Flags().StringVar(&params.Cursor, "cursor", "", "page cursor from a previous next_cursor")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	return cmd
}

func newWalletsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <wallet-id>",
		Short: "Show a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			wallet, err := client.Wallets.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(wallet)
		},
	}
}

func newWalletsCreateCmd(a *app) *cobra.Command {
	var params privy.CreateWalletParams
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a wallet",
		Long: `Create a wallet. An idempotency key is generated unless one is given, and
is printed to stderr so a failed create can be repeated safely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			if params.IdempotencyKey == "" {
				params.IdempotencyKey = uuid.NewString()
			}
			fmt.Fprintf(a.cfg.Stderr, "idempotency key: %s\n", params.IdempotencyKey)

			wallet, err := client.Wallets.Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			return a.print(wallet)
		},
	}
	cmd.Flags().StringVar(&params.ChainType, "chain-type", privy.ChainTypeEthereum, "chain type (ethereum, solana)")
	cmd.Flags().StringVar(&params.OwnerID, "owner-id", "", "key quorum ID that owns the wallet")
	cmd.Flags().StringSliceVar(&params.PolicyIDs, "policy-id", nil, "policy ID (repeatable)")
	cmd.Flags().StringVar(&params.IdempotencyKey, "idempotency-key", "", "privy-idempotency-key (default: random UUID)")
	return cmd
}

func newWalletsBalanceCmd(a *app) *cobra.Command {
	var params privy.BalanceParams
	cmd := &cobra.Command{
		Use:   "balance <wallet-id>",
		Short: "Show a wallet's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			balance, err := client.Wallets.Balance(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return a.print(balance)
		},
	}
	cmd.Flags().StringVar(&params.Chain, "chain", "", "chain name (e.g. base, ethereum)")
	cmd.Flags().StringVar(&params.Asset, "asset", "", "asset (e.g. eth, usdc)")
	return cmd
}

func newWalletsTransactionsCmd(a *app) *cobra.Command {
	var params privy.TransactionsParams
	cmd := &cobra.Command{
		Use:   "transactions <wallet-id>",
		Short: "List a wallet's transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			list, err := client.Wallets.Transactions(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return a.print(list)
		},
	}
	cmd.Flags().StringVar(&params.Chain, "chain", "", "chain name")
	cmd.Flags().StringVar(&params.Asset, "asset", "", "asset")
	cmd.Flags().StringVar(&params.Cursor, "cursor", "", "page cursor")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")
	return cmd
}

// exportOutput is printed by wallets export.
type exportOutput struct {
	WalletID   string `json:"wallet_id"`
	PrivateKey string `json:"private_key"`
	Address    string `json:"address,omitempty"`
}

func newWalletsExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <wallet-id>",
		Short: "Export a wallet's private key",
		Long: `Export a wallet's private key. A one-time HPKE key pair is generated, the
wallet secret is encrypted to it by the API and decrypted locally.

The request is signed with --signature if given, otherwise with the
configured authorization key. For Ethereum wallets the address derived from
the exported key is included so it can be checked against the wallet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			secret, err := client.Wallets.Export(cmd.Context(), args[0], signingOptions(cmd)...)
			if err != nil {
				return err
			}

			out := exportOutput{WalletID: args[0], PrivateKey: string(secret)}
			if addr, err := privy.EthereumAddress(secret); err == nil {
				out.Address = addr
			}
			return a.print(out)
		},
	}
	addSignatureFlag(cmd)
	return cmd
}

func newWalletsSign7702Cmd(a *app) *cobra.Command {
	var (
		contract string
		chainID  int64
		nonce    int64
	)
	cmd := &cobra.Command{
		Use:   "sign-7702 <wallet-id>",
		Short: "Sign an EIP-7702 authorization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			auth, err := client.Wallets.Sign7702Authorization(cmd.Context(), args[0], contract, chainID,
				privy.WithNonce(nonce), privy.WithSigning(signingOptions(cmd)...))
			if err != nil {
				return err
			}
			return a.print(auth)
		},
	}
	cmd.Flags().StringVar(&contract, "contract", "", "delegate contract address")
	cmd.Flags().Int64Var(&chainID, "chain-id", 0, "EIP-155 chain ID")
	cmd.Flags().Int64Var(&nonce, "nonce", 0, "authorization nonce")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("chain-id")
	addSignatureFlag(cmd)
	return cmd
}

func newWalletsTxStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tx-status <transaction-id>",
		Short: "Show the status of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			tx, err := client.Wallets.Transaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(tx)
		},
	}
}

func newWalletsWaitTxCmd(a *app) *cobra.Command {
	var (
		wait     time.Duration
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait-tx <transaction-id>",
		Short: "Wait until a transaction reaches a final status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			tx, err := client.Wallets.WaitForTransaction(ctx, args[0], privy.WithPollInterval(interval))
			if errors.Is(err, context.DeadlineExceeded) && tx != nil {
				a.logger.Warn("transaction not final before timeout",
					zap.String("transaction_id", args[0]),
					zap.String("status", tx.Status))
			}
			if err != nil {
				return err
			}
			return a.print(tx)
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Minute, "maximum time to wait")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "initial poll interval")
	return cmd
}
