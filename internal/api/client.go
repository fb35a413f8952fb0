package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scionx/privy-go/internal/apierrors"
)

const (
	// DefaultBaseURL is the production Privy API root.
	DefaultBaseURL = "https://api.privy.io/api/v1"
	// DefaultTimeout is the HTTP timeout applied when none is configured.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the client when no user agent is configured.
	DefaultUserAgent = "privy-go"

	maxResponseBytes = 10 << 20
)

// Header names understood by the Privy API.
const (
	HeaderAppID                  = "privy-app-id"
	HeaderAuthorizationSignature = "privy-authorization-signature"
	HeaderIdempotencyKey         = "privy-idempotency-key"
)

// RequestObserver receives one call per completed request. status is 0 when
// no response was received.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// SignFunc produces the privy-authorization-signature for a request. It
// receives the full request URL and the body exactly as it will be encoded.
// An empty string sends the request unsigned.
type SignFunc func(method, url string, body any) (string, error)

// Config holds the settings for NewClient.
type Config struct {
	AppID      string
	AppSecret  string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
	Logger     *zap.Logger
	Observer   RequestObserver
}

// Client is the HTTP API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	appID      string
	authHeader string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
	observer   RequestObserver
}

// Option configures the API client.
type Option func(*Config)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithObserver sets the request observer.
func WithObserver(o RequestObserver) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// New creates a new API client using functional options.
func New(appID, appSecret string, opts ...Option) (*Client, error) {
	cfg := Config{AppID: appID, AppSecret: appSecret}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// NewClient creates a new API client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AppID) == "" {
		return nil, apierrors.ErrMissingAppID
	}
	if strings.TrimSpace(cfg.AppSecret) == "" {
		return nil, apierrors.ErrMissingAppSecret
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.AppID + ":" + cfg.AppSecret))

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      cfg.AppID,
		authHeader: "Basic " + credentials,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger,
		observer:   cfg.Observer,
	}, nil
}

// AppID returns the app ID sent with every request.
func (c *Client) AppID() string {
	return c.appID
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the absolute URL for an API path such as "wallets/w1/export".
// This is also the url field of the signing payload.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL.
	Path string
	// Route is the templated path used for metrics and logs. Defaults to Path.
	Route    string
	Query    url.Values
	Header   map[string]string
	Body     any
	Sign     SignFunc
	Resource apierrors.ResourceType
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v. A body that is not valid JSON
// or does not fit v returns *apierrors.DecodeError.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &apierrors.DecodeError{StatusCode: r.StatusCode, Err: err}
	}
	return nil
}

// Send performs req. Non-2xx responses return *apierrors.APIError; transport
// failures, timeouts and cancellation return *apierrors.NetworkError. Errors
// from req.Sign are returned unchanged.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.URL(req.Path)
	route := req.Route
	if route == "" {
		route = req.Path
	}

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var signature string
	if req.Sign != nil {
		sig, err := req.Sign(req.Method, fullURL, req.Body)
		if err != nil {
			return nil, err
		}
		signature = sig
	}

	target := fullURL
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", c.authHeader)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(HeaderAppID, c.appID)
	for k, v := range req.Header {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}
	if signature != "" {
		httpReq.Header.Set(HeaderAuthorizationSignature, signature)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(req.Method, route, 0, elapsed)
		c.logger.Warn("privy request failed",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return nil, &apierrors.NetworkError{Err: err, URL: fullURL}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.observe(req.Method, route, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &apierrors.NetworkError{Err: fmt.Errorf("read response body: %w", err), URL: fullURL}
	}

	c.logger.Debug("privy request",
		zap.String("method", req.Method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Bool("signed", signature != ""),
		zap.Duration("duration", elapsed))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseErrorResponse(resp.StatusCode, resp.Header, body)
		apiErr.ResourceType = req.Resource
		c.logger.Warn("privy request rejected",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", apiErr.RequestID))
		return nil, apiErr
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) observe(method, route string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, route, status, d)
	}
}
