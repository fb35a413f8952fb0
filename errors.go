package privy

import (
	"errors"
	"fmt"

	"github.com/scionx/privy-go/internal/apierrors"
	"github.com/scionx/privy-go/internal/canonical"
	"github.com/scionx/privy-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAppID is returned when no app ID is provided.
	ErrMissingAppID = errors.New("app ID must be provided")

	// ErrMissingAppSecret is returned when no app secret is provided.
	ErrMissingAppSecret = errors.New("app secret must be provided")

	// ErrMissingWalletID is returned when a wallet operation is called with a
	// blank wallet ID.
	ErrMissingWalletID = errors.New("wallet ID is required")

	// ErrInvalidArgument is returned when a required call argument is blank or
	// malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAuthorization is matched by every *AuthorizationError.
	ErrAuthorization = errors.New("authorization failed")

	// ErrHpke is matched by every *HpkeError.
	ErrHpke = errors.New("hpke error")

	// ErrDecryptionFailed is returned when decapsulation or AEAD
	// authentication fails.
	ErrDecryptionFailed = errors.New("failed to decrypt")

	// ErrInvalidExportResponse is returned when an export response lacks
	// ciphertext or encapsulated_key.
	ErrInvalidExportResponse = errors.New("invalid export response")

	// ErrBadRequest is returned for 400 responses.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned when the app credentials are rejected.
	ErrUnauthorized = errors.New("invalid app credentials")

	// ErrForbidden is returned when a request lacks a valid authorization
	// signature or the app may not access the resource.
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
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)

// PrivyError is implemented by all SDK errors.
type PrivyError interface {
	error
	PrivyError() // marker method
}

// EncodingError reports a value that cannot be canonicalized, with the JSON
// path of the offending element.
type EncodingError = canonical.EncodingError

// HPKE failure stages reported by HpkeError.
const (
	StageKeygen      = "keygen"
	StageDecode      = crypto.StageDecode
	StageDecapsulate = crypto.StageDecapsulate
	StageDecrypt     = crypto.StageDecrypt
	StageResponse    = "response"
)

// APIError represents a non-2xx HTTP response from the Privy API.
type APIError struct {
	StatusCode   int
	Message      string
	RequestID    string // if returned by server
	ResourceType string // "wallet", "key_quorum" or empty
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

// PrivyError implements the PrivyError interface.
func (e *APIError) PrivyError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 400:
		return target == ErrBadRequest
	case 401:
		return target == ErrUnauthorized
	case 403:
		return target == ErrForbidden
	case 404:
		switch apierrors.ResourceType(e.ResourceType) {
		case apierrors.ResourceWallet:
			return target == ErrNotFound || target == ErrWalletNotFound
		case apierrors.ResourceKeyQuorum:
			return target == ErrNotFound || target == ErrKeyQuorumNotFound
		}
		return target == ErrNotFound
	case 429:
		return target == ErrRateLimited
	case 500:
		return target == ErrServer
	case 503:
		return target == ErrServiceUnavailable
	}
	return false
}

// NetworkError represents a transport-level failure. Timeouts and cancelled
// contexts are reported as NetworkError wrapping the context error.
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

// PrivyError implements the PrivyError interface.
func (e *NetworkError) PrivyError() {}

// AuthorizationError reports that a request signature could not be produced.
type AuthorizationError struct {
	Op  string // "parse_key", "canonicalize", "sign"
	Err error
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("failed to sign request: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *AuthorizationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *AuthorizationError) Is(target error) bool {
	return target == ErrAuthorization
}

// PrivyError implements the PrivyError interface.
func (e *AuthorizationError) PrivyError() {}

// HpkeError reports a failed key generation, malformed export response or
// failed decryption.
type HpkeError struct {
	Stage   string
	Message string
	Err     error
}

func (e *HpkeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hpke %s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("hpke %s: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error.
func (e *HpkeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *HpkeError) Is(target error) bool {
	switch target {
	case ErrHpke:
		return true
	case ErrDecryptionFailed:
		return e.Stage == StageDecapsulate || e.Stage == StageDecrypt
	case ErrInvalidExportResponse:
		return e.Stage == StageResponse
	}
	return false
}

// PrivyError implements the PrivyError interface.
func (e *HpkeError) PrivyError() {}

// newHpkeError converts an internal crypto error into an *HpkeError.
func newHpkeError(err error) *HpkeError {
	var openErr *crypto.OpenError
	if errors.As(err, &openErr) {
		msg := "invalid input"
		if errors.Is(openErr.Err, crypto.ErrDecryptionFailed) {
			msg = "failed to decrypt"
		}
		return &HpkeError{Stage: openErr.Stage, Message: msg, Err: openErr.Err}
	}
	if errors.Is(err, crypto.ErrKeyGeneration) {
		return &HpkeError{Stage: StageKeygen, Message: "failed to generate ephemeral key", Err: err}
	}
	return &HpkeError{Stage: StageDecrypt, Message: "failed to decrypt", Err: err}
}

// newAuthorizationError classifies a signing failure.
func newAuthorizationError(err error) *AuthorizationError {
	var encErr *canonical.EncodingError
	switch {
	case errors.As(err, &encErr):
		return &AuthorizationError{Op: "canonicalize", Err: err}
	case errors.Is(err, crypto.ErrInvalidAuthorizationKey):
		return &AuthorizationError{Op: "parse_key", Err: err}
	default:
		return &AuthorizationError{Op: "sign", Err: err}
	}
}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:   apiErr.StatusCode,
			Message:      apiErr.Message,
			RequestID:    apiErr.RequestID,
			ResourceType: string(apiErr.ResourceType),
		}
	}

	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err: netErr.Err,
			URL: netErr.URL,
		}
	}

	return err
}
