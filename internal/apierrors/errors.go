// Package apierrors provides shared error types for the Privy client.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAppID is returned when no app ID is provided.
	ErrMissingAppID = errors.New("app ID is required")

	// ErrMissingAppSecret is returned when no app secret is provided.
	ErrMissingAppSecret = errors.New("app secret is required")

	// ErrBadRequest is returned for 400 responses.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned when the app credentials are rejected.
	ErrUnauthorized = errors.New("invalid app credentials")

	// ErrForbidden is returned when the request lacks a required
	// authorization signature or the signer is not permitted.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrWalletNotFound is returned when a wallet does not exist.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrKeyQuorumNotFound is returned when a key quorum does not exist.
	ErrKeyQuorumNotFound = errors.New("key quorum not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServer is returned for 500 responses.
	ErrServer = errors.New("internal server error")

	// ErrServiceUnavailable is returned for 503 responses.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ResourceType indicates which type of resource an error relates to.
type ResourceType string

const (
	// ResourceUnknown indicates the resource type is not specified.
	ResourceUnknown ResourceType = ""
	// ResourceWallet indicates the error relates to a wallet.
	ResourceWallet ResourceType = "wallet"
	// ResourceKeyQuorum indicates the error relates to a key quorum.
	ResourceKeyQuorum ResourceType = "key_quorum"
)

// DefaultMessage returns the message used when a failed response carries no
// error text of its own.
func DefaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		return "Invalid App credentials"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusTooManyRequests:
		return "Rate limit exceeded"
	case http.StatusInternalServerError:
		return "Internal server error"
	case http.StatusServiceUnavailable:
		return "Service temporarily unavailable"
	default:
		return fmt.Sprintf("API request failed (status: %d)", status)
	}
}

// FixedMessage reports whether responses with status always use
// DefaultMessage regardless of the body.
func FixedMessage(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// APIError represents a non-2xx HTTP response from the Privy API.
type APIError struct {
	StatusCode   int
	Message      string
	RequestID    string
	ResourceType ResourceType
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return target == ErrBadRequest
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusNotFound:
		switch e.ResourceType {
		case ResourceWallet:
			return target == ErrNotFound || target == ErrWalletNotFound
		case ResourceKeyQuorum:
			return target == ErrNotFound || target == ErrKeyQuorumNotFound
		default:
			return target == ErrNotFound
		}
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	case http.StatusInternalServerError:
		return target == ErrServer
	case http.StatusServiceUnavailable:
		return target == ErrServiceUnavailable
	}
	return false
}

// WithResourceType returns a copy of the error with the resource type set.
// If the error is not an *APIError, it is returned unchanged.
func WithResourceType(err error, rt ResourceType) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:   apiErr.StatusCode,
			Message:      apiErr.Message,
			RequestID:    apiErr.RequestID,
			ResourceType: rt,
		}
	}
	return err
}

// NetworkError represents a transport-level failure, including timeouts and
// cancelled contexts.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError reports a 2xx response whose body could not be decoded into
// the expected shape.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
