package apierrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "status code only",
			err:      &APIError{StatusCode: 500},
			expected: "API error 500",
		},
		{
			name:     "with message",
			err:      &APIError{StatusCode: 400, Message: "bad request"},
			expected: "API error 400: bad request",
		},
		{
			name:     "with request ID",
			err:      &APIError{StatusCode: 500, RequestID: "req-123"},
			expected: "API error 500 (request_id: req-123)",
		},
		{
			name:     "with message and request ID",
			err:      &APIError{StatusCode: 503, Message: "service unavailable", RequestID: "req-456"},
			expected: "API error 503: service unavailable (request_id: req-456)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		target   error
		expected bool
	}{
		{"400 matches ErrBadRequest", &APIError{StatusCode: 400}, ErrBadRequest, true},
		{"401 matches ErrUnauthorized", &APIError{StatusCode: 401}, ErrUnauthorized, true},
		{"401 does not match ErrForbidden", &APIError{StatusCode: 401}, ErrForbidden, false},
		{"403 matches ErrForbidden", &APIError{StatusCode: 403}, ErrForbidden, true},
		{"404 matches ErrNotFound", &APIError{StatusCode: 404}, ErrNotFound, true},
		{"404 without resource does not match ErrWalletNotFound", &APIError{StatusCode: 404}, ErrWalletNotFound, false},
		{"404 wallet matches ErrWalletNotFound", &APIError{StatusCode: 404, ResourceType: ResourceWallet}, ErrWalletNotFound, true},
		{"404 wallet matches ErrNotFound", &APIError{StatusCode: 404, ResourceType: ResourceWallet}, ErrNotFound, true},
		{"404 wallet does not match ErrKeyQuorumNotFound", &APIError{StatusCode: 404, ResourceType: ResourceWallet}, ErrKeyQuorumNotFound, false},
		{"404 key quorum matches ErrKeyQuorumNotFound", &APIError{StatusCode: 404, ResourceType: ResourceKeyQuorum}, ErrKeyQuorumNotFound, true},
		{"429 matches ErrRateLimited", &APIError{StatusCode: 429}, ErrRateLimited, true},
		{"500 matches ErrServer", &APIError{StatusCode: 500}, ErrServer, true},
		{"503 matches ErrServiceUnavailable", &APIError{StatusCode: 503}, ErrServiceUnavailable, true},
		{"503 does not match ErrServer", &APIError{StatusCode: 503}, ErrServer, false},
		{"502 matches nothing", &APIError{StatusCode: 502}, ErrServer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Is(tt.target)
			if got != tt.expected {
				t.Errorf("Is(%v) = %v, want %v", tt.target, got, tt.expected)
			}
		})
	}
}

func TestAPIError_ErrorsIs(t *testing.T) {
	err := fmt.Errorf("export: %w", &APIError{StatusCode: 404, ResourceType: ResourceWallet})
	if !errors.Is(err, ErrWalletNotFound) {
		t.Error("errors.Is should match ErrWalletNotFound through wrapping")
	}
}

func TestDefaultMessage(t *testing.T) {
	tests := map[int]string{
		400: "Bad request",
		401: "Invalid App credentials",
		403: "Forbidden",
		404: "Resource not found",
		429: "Rate limit exceeded",
		500: "Internal server error",
		503: "Service temporarily unavailable",
		418: "API request failed (status: 418)",
	}
	for status, want := range tests {
		if got := DefaultMessage(status); got != want {
			t.Errorf("DefaultMessage(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestFixedMessage(t *testing.T) {
	for _, status := range []int{404, 429, 503} {
		if !FixedMessage(status) {
			t.Errorf("FixedMessage(%d) = false, want true", status)
		}
	}
	for _, status := range []int{400, 401, 403, 500, 502} {
		if FixedMessage(status) {
			t.Errorf("FixedMessage(%d) = true, want false", status)
		}
	}
}

func TestWithResourceType(t *testing.T) {
	if WithResourceType(nil, ResourceWallet) != nil {
		t.Error("nil error should stay nil")
	}

	result := WithResourceType(&APIError{StatusCode: 404, Message: "not found", RequestID: "r1"}, ResourceWallet)
	apiErr, ok := result.(*APIError)
	if !ok {
		t.Fatal("expected *APIError")
	}
	if apiErr.ResourceType != ResourceWallet || apiErr.StatusCode != 404 || apiErr.Message != "not found" || apiErr.RequestID != "r1" {
		t.Errorf("unexpected result %+v", apiErr)
	}

	other := errors.New("some other error")
	if WithResourceType(other, ResourceWallet) != other {
		t.Error("non-APIError should be returned unchanged")
	}
}

func TestNetworkError(t *testing.T) {
	underlying := fmt.Errorf("connection refused")
	err := &NetworkError{Err: underlying, URL: "https://api.privy.io/api/v1/wallets"}

	if got := err.Error(); got != "network error: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if errors.Unwrap(err) != underlying {
		t.Error("errors.Unwrap should return underlying error")
	}
}
