package privy

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config is the explicit configuration accepted by NewFromConfig. Zero
// fields take the same defaults as New.
type Config struct {
	AppID     string
	AppSecret string

	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string

	// AuthorizationKeys and AuthorizationSignatures build the default
	// AuthorizationContext. Only the first key is used to sign.
	AuthorizationKeys       []string
	AuthorizationSignatures []string

	Logger  *zap.Logger
	Metrics prometheus.Registerer
}

// options converts the non-zero fields of cfg to client options.
func (cfg Config) options() []Option {
	var opts []Option
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if len(cfg.AuthorizationKeys) > 0 || len(cfg.AuthorizationSignatures) > 0 {
		opts = append(opts, WithAuthorizationContext(
			NewAuthorizationContext(cfg.AuthorizationKeys, cfg.AuthorizationSignatures)))
	}
	if cfg.Logger != nil {
		opts = append(opts, WithLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		opts = append(opts, WithMetrics(cfg.Metrics))
	}
	return opts
}

// NewFromConfig creates a client from cfg. opts are applied after the
// fields of cfg and override them.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg.AppID, cfg.AppSecret, append(cfg.options(), opts...)...)
}
