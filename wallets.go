package privy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scionx/privy-go/internal/api"
)

// WalletService exposes wallet and key quorum operations. Obtain it from
// Client.Wallets.
type WalletService struct {
	client *Client
}

func requireWalletID(walletID string) error {
	if strings.TrimSpace(walletID) == "" {
		return ErrMissingWalletID
	}
	return nil
}

// Create creates a wallet. A random idempotency key is generated when
// params.IdempotencyKey is empty.
func (s *WalletService) Create(ctx context.Context, params CreateWalletParams) (*Wallet, error) {
	if strings.TrimSpace(params.ChainType) == "" {
		return nil, fmt.Errorf("%w: chain type is required", ErrInvalidArgument)
	}
	key := params.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	wallet, err := s.client.api.CreateWallet(ctx, api.CreateWalletRequest{
		ChainType:         params.ChainType,
		Owner:             params.Owner,
		OwnerID:           params.OwnerID,
		PolicyIDs:         params.PolicyIDs,
		AdditionalSigners: params.AdditionalSigners,
	}, key)
	if err != nil {
		return nil, wrapError(err)
	}
	s.client.logger.Info("wallet created",
		zap.String("wallet_id", wallet.ID),
		zap.String("chain_type", wallet.ChainType))
	return wallet, nil
}

// Get retrieves a wallet by ID.
func (s *WalletService) Get(ctx context.Context, walletID string) (*Wallet, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	wallet, err := s.client.api.GetWallet(ctx, walletID)
	if err != nil {
		return nil, wrapError(err)
	}
	return wallet, nil
}

// List returns a page of wallets. Pass the returned NextCursor as
// params.Cursor to fetch the next page.
func (s *WalletService) List(ctx context.Context, params ListWalletsParams) (*WalletList, error) {
	list, err := s.client.api.ListWallets(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	return list, nil
}

// Balance returns a wallet's balances for the chain and asset in params.
func (s *WalletService) Balance(ctx context.Context, walletID string, params BalanceParams) (*BalanceResponse, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	resp, err := s.client.api.GetBalance(ctx, walletID, params)
	if err != nil {
		return nil, wrapError(err)
	}
	return resp, nil
}

// Transactions returns a page of a wallet's transactions.
func (s *WalletService) Transactions(ctx context.Context, walletID string, params TransactionsParams) (*TransactionList, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	list, err := s.client.api.ListTransactions(ctx, walletID, params)
	if err != nil {
		return nil, wrapError(err)
	}
	return list, nil
}

// Update changes a wallet's owner, policies or signers. The request is
// signed like Export.
func (s *WalletService) Update(ctx context.Context, walletID string, params UpdateWalletParams, opts ...RequestOption) (*Wallet, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	wallet, err := s.client.api.UpdateWallet(ctx, walletID, api.UpdateWalletRequest{
		Owner:             params.Owner,
		OwnerID:           params.OwnerID,
		PolicyIDs:         params.PolicyIDs,
		AdditionalSigners: params.AdditionalSigners,
	}, s.client.signer(opts))
	if err != nil {
		return nil, wrapError(err)
	}
	return wallet, nil
}

// CreateKeyQuorum registers a key quorum from base64 SPKI public keys. The
// returned ID can be used as a wallet owner_id.
func (s *WalletService) CreateKeyQuorum(ctx context.Context, publicKeys []string) (*KeyQuorum, error) {
	if len(publicKeys) == 0 {
		return nil, fmt.Errorf("%w: at least one public key is required", ErrInvalidArgument)
	}
	kq, err := s.client.api.CreateKeyQuorum(ctx, api.KeyQuorumRequest{PublicKeys: publicKeys})
	if err != nil {
		return nil, wrapError(err)
	}
	return kq, nil
}

// GetKeyQuorum retrieves a key quorum by ID.
func (s *WalletService) GetKeyQuorum(ctx context.Context, id string) (*KeyQuorum, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: key quorum ID is required", ErrInvalidArgument)
	}
	kq, err := s.client.api.GetKeyQuorum(ctx, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return kq, nil
}
