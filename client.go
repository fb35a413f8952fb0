package privy

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/scionx/privy-go/internal/api"
	"github.com/scionx/privy-go/internal/metrics"
)

// walletAPI is the subset of the HTTP transport used by the client.
type walletAPI interface {
	AppID() string
	URL(path string) string

	CreateWallet(ctx context.Context, req api.CreateWalletRequest, idempotencyKey string) (*api.Wallet, error)
	GetWallet(ctx context.Context, walletID string) (*api.Wallet, error)
	ListWallets(ctx context.Context, params api.ListWalletsParams) (*api.WalletList, error)
	GetBalance(ctx context.Context, walletID string, params api.BalanceParams) (*api.BalanceResponse, error)
	ListTransactions(ctx context.Context, walletID string, params api.TransactionsParams) (*api.TransactionList, error)
	UpdateWallet(ctx context.Context, walletID string, req api.UpdateWalletRequest, sign api.SignFunc) (*api.Wallet, error)
	ExportWallet(ctx context.Context, walletID string, req api.ExportWalletRequest, sign api.SignFunc) (*api.ExportWalletResponse, error)
	WalletRPC(ctx context.Context, walletID string, req api.RPCRequest, sign api.SignFunc) (*api.RPCResponse, error)
	CreateKeyQuorum(ctx context.Context, req api.KeyQuorumRequest) (*api.KeyQuorum, error)
	GetKeyQuorum(ctx context.Context, id string) (*api.KeyQuorum, error)
	GetTransaction(ctx context.Context, transactionID string) (*api.TransactionStatus, error)
}

// Client is the Privy API client. It holds no mutable state after New and
// is safe for concurrent use.
type Client struct {
	api     walletAPI
	appID   string
	authCtx *AuthorizationContext
	logger  *zap.Logger
	metrics *metrics.Collector

	// Wallets groups wallet and key quorum operations.
	Wallets *WalletService
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(appID, appSecret string, cfg *clientConfig, observer api.RequestObserver) (*api.Client, error) {
	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
		api.WithUserAgent(cfg.userAgent),
		api.WithLogger(cfg.logger),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	if observer != nil {
		apiOpts = append(apiOpts, api.WithObserver(observer))
	}
	return api.New(appID, appSecret, apiOpts...)
}

// New creates a client for the app identified by appID and appSecret.
func New(appID, appSecret string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(appID) == "" {
		return nil, ErrMissingAppID
	}
	if strings.TrimSpace(appSecret) == "" {
		return nil, ErrMissingAppSecret
	}

	cfg := &clientConfig{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		userAgent: "privy-go/" + Version,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	var collector *metrics.Collector
	var observer api.RequestObserver
	if cfg.registerer != nil {
		var err error
		collector, err = metrics.NewCollector(cfg.registerer)
		if err != nil {
			return nil, err
		}
		observer = collector
	}

	apiClient, err := buildAPIClient(appID, appSecret, cfg, observer)
	if err != nil {
		return nil, err
	}

	return newClient(apiClient, cfg, collector), nil
}

func newClient(transport walletAPI, cfg *clientConfig, collector *metrics.Collector) *Client {
	c := &Client{
		api:     transport,
		appID:   transport.AppID(),
		authCtx: cfg.authCtx,
		logger:  cfg.logger,
		metrics: collector,
	}
	c.Wallets = &WalletService{client: c}
	return c
}

// AppID returns the app ID the client authenticates as.
func (c *Client) AppID() string {
	return c.appID
}

// AuthorizationContext returns the default signing context, or nil.
func (c *Client) AuthorizationContext() *AuthorizationContext {
	return c.authCtx
}

// URL returns the absolute URL of an API path. This is the url field of the
// signing payload.
func (c *Client) URL(path string) string {
	return c.api.URL(path)
}

// signer resolves the signature for one request. An explicit per-call
// signature wins, then a per-call context, then the client default.
func (c *Client) signer(opts []RequestOption) api.SignFunc {
	rc := requestConfig{}
	for _, opt := range opts {
		opt(&rc)
	}

	return func(method, url string, body any) (string, error) {
		if rc.signature != "" {
			c.metrics.SignatureSource(metrics.SignaturePrecomputed)
			return rc.signature, nil
		}

		authCtx := rc.authCtx
		if authCtx == nil {
			authCtx = c.authCtx
		}
		if !authCtx.CanSign() {
			c.metrics.SignatureSource(metrics.SignatureNone)
			return "", nil
		}

		sig, err := authCtx.SignRequest(method, url, body, c.appID)
		if err != nil {
			return "", err
		}
		c.metrics.SignatureSource(authCtx.source())
		return sig, nil
	}
}
