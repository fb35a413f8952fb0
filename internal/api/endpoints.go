package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/scionx/privy-go/internal/apierrors"
)

func walletPath(walletID string, suffix ...string) string {
	p := "wallets/" + url.PathEscape(walletID)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *Client) call(ctx context.Context, req *Request, result any) error {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return resp.Decode(result)
}

// CreateWallet creates a wallet. A non-empty idempotencyKey is sent as
// privy-idempotency-key.
func (c *Client) CreateWallet(ctx context.Context, req CreateWalletRequest, idempotencyKey string) (*Wallet, error) {
	var result Wallet
	err := c.call(ctx, &Request{
		Method:   http.MethodPost,
		Path:     "wallets",
		Body:     req,
		Header:   map[string]string{HeaderIdempotencyKey: idempotencyKey},
		Resource: apierrors.ResourceWallet,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWallet retrieves a wallet by ID.
func (c *Client) GetWallet(ctx context.Context, walletID string) (*Wallet, error) {
	var result Wallet
	err := c.call(ctx, &Request{
		Method:   http.MethodGet,
		Path:     walletPath(walletID),
		Route:    "wallets/{id}",
		Resource: apierrors.ResourceWallet,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListWallets lists wallets.
func (c *Client) ListWallets(ctx context.Context, params ListWalletsParams) (*WalletList, error) {
	q := url.Values{}
	setQuery(q, "cursor", params.Cursor)
	setQuery(q, "chain_type", params.ChainType)
	setQuery(q, "user_id", params.UserID)
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	var result WalletList
	if err := c.call(ctx, &Request{Method: http.MethodGet, Path: "wallets", Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBalance returns a wallet's balance for a chain and asset.
func (c *Client) GetBalance(ctx context.Context, walletID string, params BalanceParams) (*BalanceResponse, error) {
	q := url.Values{}
	setQuery(q, "chain", params.Chain)
	setQuery(q, "asset", params.Asset)

	var result BalanceResponse
	err := c.call(ctx, &Request{
		Method:   http.MethodGet,
		Path:     walletPath(walletID, "balance"),
		Route:    "wallets/{id}/balance",
		Query:    q,
		Resource: apierrors.ResourceWallet,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTransactions returns a page of a wallet's transactions.
func (c *Client) ListTransactions(ctx context.Context, walletID string, params TransactionsParams) (*TransactionList, error) {
	q := url.Values{}
	setQuery(q, "chain", params.Chain)
	setQuery(q, "asset", params.Asset)
	setQuery(q, "cursor", params.Cursor)
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	var result TransactionList
	err := c.call(ctx, &Request{
		Method:   http.MethodGet,
		Path:     walletPath(walletID, "transactions"),
		Route:    "wallets/{id}/transactions",
		Query:    q,
		Resource: apierrors.ResourceWallet,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateWallet patches a wallet. sign may be nil.
func (c *Client) UpdateWallet(ctx context.Context, walletID string, req UpdateWalletRequest, sign SignFunc) (*Wallet, error) {
	var result Wallet
	err := c.call(ctx, &Request{
		Method:   http.MethodPatch,
		Path:     walletPath(walletID),
		Route:    "wallets/{id}",
		Body:     req,
		Sign:     sign,
		Resource: apierrors.ResourceWallet,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportWallet requests the wallet secret encrypted to req.RecipientPublicKey.
// sign may be nil.
func (c *Client) ExportWallet(ctx context.Context, walletID string, req ExportWalletRequest, sign SignFunc) (*ExportWalletResponse, error) {
	var result ExportWalletResponse
	err := c.call(ctx, &Request{
		Method:   http.MethodPost,
		Path:     walletPath(walletID, "export"),
		Route:    "wallets/{id}/export",
		Body:     req,
		Sign:     sign,
		Resource: apierrors.ResourceWallet,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// WalletRPC invokes a signing RPC method on a wallet. sign may be nil.
func (c *Client) WalletRPC(ctx context.Context, walletID string, req RPCRequest, sign SignFunc) (*RPCResponse, error) {
	var result RPCResponse
	err := c.call(ctx, &Request{
		Method:   http.MethodPost,
		Path:     walletPath(walletID, "rpc"),
		Route:    "wallets/{id}/rpc",
		Body:     req,
		Sign:     sign,
		Resource: apierrors.ResourceWallet,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateKeyQuorum registers a key quorum from SPKI public keys.
func (c *Client) CreateKeyQuorum(ctx context.Context, req KeyQuorumRequest) (*KeyQuorum, error) {
	var result KeyQuorum
	err := c.call(ctx, &Request{
		Method:   http.MethodPost,
		Path:     "key_quorums",
		Body:     req,
		Resource: apierrors.ResourceKeyQuorum,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetKeyQuorum retrieves a key quorum by ID.
func (c *Client) GetKeyQuorum(ctx context.Context, id string) (*KeyQuorum, error) {
	var result KeyQuorum
	err := c.call(ctx, &Request{
		Method:   http.MethodGet,
		Path:     fmt.Sprintf("key_quorums/%s", url.PathEscape(id)),
		Route:    "key_quorums/{id}",
		Resource: apierrors.ResourceKeyQuorum,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTransaction retrieves the status of a transaction submitted through
// wallet RPC.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*TransactionStatus, error) {
	var result TransactionStatus
	err := c.call(ctx, &Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("transactions/%s", url.PathEscape(transactionID)),
		Route:  "transactions/{id}",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func setQuery(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
