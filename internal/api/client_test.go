package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/scionx/privy-go/internal/apierrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL)}, opts...)
	client, err := New("app-id", "app-secret", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"missing app ID", Config{AppSecret: "secret"}, apierrors.ErrMissingAppID},
		{"blank app ID", Config{AppID: "  ", AppSecret: "secret"}, apierrors.ErrMissingAppID},
		{"missing app secret", Config{AppID: "app"}, apierrors.ErrMissingAppSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewClient() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewClient_DefaultValues(t *testing.T) {
	client, err := NewClient(Config{AppID: "app", AppSecret: "secret"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), DefaultBaseURL)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
	if client.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %s, want %s", client.userAgent, DefaultUserAgent)
	}
	if client.AppID() != "app" {
		t.Errorf("AppID() = %s, want app", client.AppID())
	}
}

func TestNew_WithOptions(t *testing.T) {
	custom := &http.Client{Timeout: 5 * time.Second}
	client, err := New("app", "secret",
		WithBaseURL("https://example.com/api/v1/"),
		WithHTTPClient(custom),
		WithUserAgent("custom/1.0"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.BaseURL() != "https://example.com/api/v1" {
		t.Errorf("BaseURL() = %s", client.BaseURL())
	}
	if client.httpClient != custom {
		t.Error("httpClient not set correctly")
	}
	if client.userAgent != "custom/1.0" {
		t.Errorf("userAgent = %s", client.userAgent)
	}
}

func TestNew_WithTimeout(t *testing.T) {
	client, err := New("app", "secret", WithTimeout(60*time.Second))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.httpClient.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s", client.httpClient.Timeout)
	}
}

func TestClient_URL(t *testing.T) {
	client, _ := New("app", "secret", WithBaseURL("https://api.privy.io/api/v1"))
	tests := map[string]string{
		"wallets":           "https://api.privy.io/api/v1/wallets",
		"/wallets/w1":       "https://api.privy.io/api/v1/wallets/w1",
		"wallets/w1/export": "https://api.privy.io/api/v1/wallets/w1/export",
	}
	for path, want := range tests {
		if got := client.URL(path); got != want {
			t.Errorf("URL(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestClient_Send_Headers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("app-id:app-secret"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Errorf("Authorization = %s, want %s", got, wantAuth)
		}
		if got := r.Header.Get(HeaderAppID); got != "app-id" {
			t.Errorf("privy-app-id = %s, want app-id", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %s", got)
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %s", got)
		}
		if _, ok := r.Header[http.CanonicalHeaderKey(HeaderAuthorizationSignature)]; ok {
			t.Error("unsigned request must not carry a signature header")
		}
		w.Write([]byte(`{}`))
	}, WithUserAgent("test-agent"))

	if _, err := client.Send(context.Background(), &Request{Method: http.MethodGet, Path: "wallets"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestClient_Send_GetUsesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wallets/w1/balance" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("chain"); got != "base" {
			t.Errorf("chain = %s, want base", got)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("GET body = %q, want empty", body)
		}
		w.Write([]byte(`{"balances":[]}`))
	})

	_, err := client.GetBalance(context.Background(), "w1", BalanceParams{Chain: "base"})
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
}

func TestClient_Send_Signed(t *testing.T) {
	var gotMethod, gotURL string
	var gotBody any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(HeaderAuthorizationSignature); got != "c2lnbmF0dXJl" {
			t.Errorf("signature header = %q", got)
		}
		w.Write([]byte(`{"ok":true}`))
	})

	body := map[string]string{"encryption_type": "HPKE"}
	sign := func(method, url string, b any) (string, error) {
		gotMethod, gotURL, gotBody = method, url, b
		return "c2lnbmF0dXJl", nil
	}

	_, err := client.Send(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "wallets/w1/export",
		Body:   body,
		Sign:   sign,
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("sign method = %s", gotMethod)
	}
	if gotURL != client.URL("wallets/w1/export") {
		t.Errorf("sign url = %s", gotURL)
	}
	if m, ok := gotBody.(map[string]string); !ok || m["encryption_type"] != "HPKE" {
		t.Errorf("sign body = %#v", gotBody)
	}
}

func TestClient_Send_EmptySignatureSendsUnsigned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header[http.CanonicalHeaderKey(HeaderAuthorizationSignature)]; ok {
			t.Error("signature header should be absent")
		}
		w.Write([]byte(`{}`))
	})

	_, err := client.Send(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "wallets/w1/export",
		Body:   map[string]string{},
		Sign:   func(string, string, any) (string, error) { return "", nil },
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestClient_Send_SignErrorStopsRequest(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	signErr := errors.New("bad key")
	_, err := client.Send(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "wallets/w1/export",
		Sign:   func(string, string, any) (string, error) { return "", signErr },
	})
	if !errors.Is(err, signErr) {
		t.Fatalf("Send() error = %v, want %v", err, signErr)
	}
	if called {
		t.Error("request should not be sent when signing fails")
	}
}

func TestClient_Call_NoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var result struct{ OK bool }
	if err := client.call(context.Background(), &Request{Method: http.MethodDelete, Path: "wallets/w1"}, &result); err != nil {
		t.Fatalf("call() error = %v", err)
	}
}

func TestClient_Call_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ciphertext":123}`))
	})

	_, err := client.ExportWallet(context.Background(), "w1", ExportWalletRequest{EncryptionType: "HPKE"}, nil)
	var decErr *apierrors.DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("ExportWallet() error = %v, want *DecodeError", err)
	}
	if decErr.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", decErr.StatusCode)
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("error should wrap *json.UnmarshalTypeError, got %v", err)
	}
}

func TestClient_Call_NoRetry(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.call(context.Background(), &Request{Method: http.MethodGet, Path: "wallets"}, nil)
	if !errors.Is(err, apierrors.ErrServiceUnavailable) {
		t.Fatalf("call() error = %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestClient_Call_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := client.call(ctx, &Request{Method: http.MethodGet, Path: "wallets"}, nil)
	var netErr *apierrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("call() error = %v, want *NetworkError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error should wrap context.DeadlineExceeded, got %v", err)
	}
}

func TestClient_Call_ErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		header      string
		wantMessage string
		wantReqID   string
		wantErr     error
	}{
		{"400 with message", 400, `{"message":"invalid chain"}`, "", "invalid chain", "", apierrors.ErrBadRequest},
		{"400 without body", 400, ``, "", "Bad request", "", apierrors.ErrBadRequest},
		{"401 error string", 401, `{"error":"bad secret"}`, "", "bad secret", "", apierrors.ErrUnauthorized},
		{"401 default", 401, `{}`, "", "Invalid App credentials", "", apierrors.ErrUnauthorized},
		{"403 nested error", 403, `{"error":{"message":"missing signature"}}`, "", "missing signature", "", apierrors.ErrForbidden},
		{"404 fixed message", 404, `{"message":"wallet xyz missing"}`, "", "Resource not found", "", apierrors.ErrNotFound},
		{"429 fixed message", 429, `{"message":"slow down"}`, "", "Rate limit exceeded", "", apierrors.ErrRateLimited},
		{"500 with request id header", 500, `{"message":"boom"}`, "req-1", "boom", "req-1", apierrors.ErrServer},
		{"503 fixed message", 503, `not json`, "", "Service temporarily unavailable", "", apierrors.ErrServiceUnavailable},
		{"418 default", 418, `<html>`, "", "API request failed (status: 418)", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("X-Request-Id", tt.header)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.call(context.Background(), &Request{Method: http.MethodGet, Path: "wallets"}, nil)
			var apiErr *apierrors.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("call() error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.RequestID != tt.wantReqID {
				t.Errorf("RequestID = %q, want %q", apiErr.RequestID, tt.wantReqID)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(%v) = false", tt.wantErr)
			}
		})
	}
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observation
}

type observation struct {
	method, route string
	status        int
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observation{method, route, status})
}

func TestClient_Observer(t *testing.T) {
	obs := &recordingObserver{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wallets/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":"w1"}`))
	}, WithObserver(obs))

	if _, err := client.GetWallet(context.Background(), "w1"); err != nil {
		t.Fatalf("GetWallet() error = %v", err)
	}
	if _, err := client.GetWallet(context.Background(), "missing"); err == nil {
		t.Fatal("expected error")
	}

	want := []observation{
		{http.MethodGet, "wallets/{id}", 200},
		{http.MethodGet, "wallets/{id}", 404},
	}
	if len(obs.calls) != len(want) {
		t.Fatalf("observations = %v, want %v", obs.calls, want)
	}
	for i := range want {
		if obs.calls[i] != want[i] {
			t.Errorf("observation[%d] = %v, want %v", i, obs.calls[i], want[i])
		}
	}
}

func TestClient_LogsWithoutSecrets(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"denied"}`))
	}, WithLogger(zap.New(core)))

	_, _ = client.ExportWallet(context.Background(), "w1", ExportWalletRequest{
		EncryptionType:     "HPKE",
		RecipientPublicKey: "cHVibGlj",
	}, func(string, string, any) (string, error) { return "c2VjcmV0LXNpZw==", nil })

	if logs.Len() == 0 {
		t.Fatal("expected log entries")
	}
	for _, entry := range logs.All() {
		for k, v := range entry.ContextMap() {
			s, _ := json.Marshal(v)
			for _, secret := range []string{"app-secret", "c2VjcmV0LXNpZw==", "cHVibGlj"} {
				if strings.Contains(string(s), secret) {
					t.Errorf("log field %s leaks %q", k, secret)
				}
			}
		}
	}
}
