package privy

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the production Privy API root.
	DefaultBaseURL = "https://api.privy.io/api/v1"
	// DefaultTimeout applies to every request unless overridden.
	DefaultTimeout = 30 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string

	authCtx *AuthorizationContext

	logger     *zap.Logger
	registerer prometheus.Registerer
}

// requestConfig holds per-call signing overrides.
type requestConfig struct {
	authCtx   *AuthorizationContext
	signature string
}

// Option configures the client.
type Option func(*clientConfig)

// RequestOption configures a single signed request (export, update, RPC).
type RequestOption func(*requestConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. Its timeout takes precedence
// over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP timeout.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
// Default: "privy-go/<version>"
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithAuthorizationContext sets the default context used to sign requests
// that act on wallets.
func WithAuthorizationContext(authCtx *AuthorizationContext) Option {
	return func(c *clientConfig) {
		c.authCtx = authCtx
	}
}

// WithAuthorizationKey sets a default context holding a single
// "wallet-auth:" key. It replaces any context set earlier.
func WithAuthorizationKey(key string) Option {
	return func(c *clientConfig) {
		c.authCtx = NewAuthorizationContext([]string{key}, nil)
	}
}

// WithLogger sets the logger. Secrets, signatures and decrypted keys are
// never logged.
// Default: no logging
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics registers client metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// WithRequestAuthorization signs this request with authCtx instead of the
// client default.
func WithRequestAuthorization(authCtx *AuthorizationContext) RequestOption {
	return func(c *requestConfig) {
		c.authCtx = authCtx
	}
}

// WithAuthorizationSignature attaches a precomputed signature to this
// request. It takes precedence over every authorization context.
func WithAuthorizationSignature(signature string) RequestOption {
	return func(c *requestConfig) {
		c.signature = signature
	}
}
