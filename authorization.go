package privy

import (
	"strings"

	"github.com/scionx/privy-go/internal/canonical"
	"github.com/scionx/privy-go/internal/crypto"
	"github.com/scionx/privy-go/internal/metrics"
)

// SigningPayloadVersion is the version field of the signed request payload.
const SigningPayloadVersion = 1

// AuthorizationContext holds the authorization keys and precomputed
// signatures used to sign requests that act on a wallet. It is immutable
// after construction and safe for concurrent use. A nil context cannot sign.
type AuthorizationContext struct {
	keys       []string
	signatures []string
}

// NewAuthorizationContext returns a context holding copies of keys and
// signatures. Keys are "wallet-auth:" authorization keys; signatures are
// base64 signatures computed elsewhere. Neither is validated here: keys are
// parsed when a request is signed.
func NewAuthorizationContext(keys, signatures []string) *AuthorizationContext {
	return &AuthorizationContext{
		keys:       cloneStrings(keys),
		signatures: cloneStrings(signatures),
	}
}

// AuthorizationKeys returns a copy of the configured keys.
func (a *AuthorizationContext) AuthorizationKeys() []string {
	if a == nil {
		return nil
	}
	return cloneStrings(a.keys)
}

// Signatures returns a copy of the precomputed signatures.
func (a *AuthorizationContext) Signatures() []string {
	if a == nil {
		return nil
	}
	return cloneStrings(a.signatures)
}

// CanSign reports whether the context holds at least one key or signature.
func (a *AuthorizationContext) CanSign() bool {
	return a != nil && (len(a.keys) > 0 || len(a.signatures) > 0)
}

// SignRequest returns the privy-authorization-signature for a request.
//
// If the context holds precomputed signatures the first one is returned as
// is and no key is touched. Otherwise the canonical signing payload is
// signed with the first key; additional keys are kept but unused. An empty
// string with a nil error means no signature is available.
//
// Failures are returned as *AuthorizationError.
func (a *AuthorizationContext) SignRequest(method, url string, body any, appID string) (string, error) {
	if a == nil {
		return "", nil
	}
	if len(a.signatures) > 0 {
		return a.signatures[0], nil
	}
	if len(a.keys) == 0 {
		return "", nil
	}

	msg, err := CanonicalSigningPayload(method, url, body, appID)
	if err != nil {
		return "", newAuthorizationError(err)
	}
	sig, err := crypto.SignRequestPayload(a.keys[0], msg)
	if err != nil {
		return "", newAuthorizationError(err)
	}
	return sig, nil
}

func (a *AuthorizationContext) source() string {
	switch {
	case a == nil:
		return metrics.SignatureNone
	case len(a.signatures) > 0:
		return metrics.SignaturePrecomputed
	case len(a.keys) > 0:
		return metrics.SignatureKey
	}
	return metrics.SignatureNone
}

// BuildSigningPayload returns the payload whose canonical form is signed:
// {body, headers: {privy-app-id}, method, url, version}. The method is
// upper-cased.
func BuildSigningPayload(method, url string, body any, appID string) (Value, error) {
	bodyValue, err := canonical.FromAny(body)
	if err != nil {
		return Value{}, err
	}
	return canonical.Object(map[string]Value{
		"body": bodyValue,
		"headers": canonical.Object(map[string]Value{
			"privy-app-id": canonical.String(appID),
		}),
		"method":  canonical.String(strings.ToUpper(method)),
		"url":     canonical.String(url),
		"version": canonical.Int(SigningPayloadVersion),
	}), nil
}

// CanonicalSigningPayload returns the canonical JSON bytes that SignRequest
// signs.
func CanonicalSigningPayload(method, url string, body any, appID string) ([]byte, error) {
	payload, err := BuildSigningPayload(method, url, body, appID)
	if err != nil {
		return nil, err
	}
	return canonical.Canonicalize(payload)
}

// AuthorizationContextBuilder accumulates keys and signatures for an
// AuthorizationContext. It is not safe for concurrent use.
type AuthorizationContextBuilder struct {
	keys       []string
	signatures []string
}

// NewAuthorizationContextBuilder returns an empty builder.
func NewAuthorizationContextBuilder() *AuthorizationContextBuilder {
	return &AuthorizationContextBuilder{}
}

// AddAuthorizationKey appends a "wallet-auth:" key.
func (b *AuthorizationContextBuilder) AddAuthorizationKey(key string) *AuthorizationContextBuilder {
	b.keys = append(b.keys, key)
	return b
}

// AddSignature appends a precomputed base64 signature.
func (b *AuthorizationContextBuilder) AddSignature(signature string) *AuthorizationContextBuilder {
	b.signatures = append(b.signatures, signature)
	return b
}

// Build returns a context holding a snapshot of the accumulated values.
func (b *AuthorizationContextBuilder) Build() *AuthorizationContext {
	return NewAuthorizationContext(b.keys, b.signatures)
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// AuthorizationKey is a newly generated authorization key pair.
type AuthorizationKey struct {
	// PrivateKey is the "wallet-auth:" key accepted by AuthorizationContext.
	PrivateKey string
	// PublicKey is base64 DER SPKI, the form registered as a wallet owner or
	// key quorum member.
	PublicKey string
}

// GenerateAuthorizationKey creates a new P-256 authorization key.
func GenerateAuthorizationKey() (*AuthorizationKey, error) {
	kp, err := crypto.GenerateAuthorizationKey()
	if err != nil {
		return nil, err
	}
	return &AuthorizationKey{PrivateKey: kp.PrivateKey, PublicKey: kp.PublicKeyB64}, nil
}
