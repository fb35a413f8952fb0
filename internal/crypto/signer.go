package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var pemMarker = regexp.MustCompile(`-----(BEGIN|END) [A-Z ]+-----`)

// ParseAuthorizationKey decodes an authorization key of the form
// "wallet-auth:<base64 PKCS#8>". The prefix is optional and PEM armor is
// stripped if present. SEC 1 "EC PRIVATE KEY" bodies are accepted as well.
func ParseAuthorizationKey(key string) (*ecdsa.PrivateKey, error) {
	body := strings.TrimSpace(key)
	body = strings.TrimPrefix(body, AuthorizationKeyPrefix)
	body = pemMarker.ReplaceAllString(body, "")
	body = stripWhitespace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidAuthorizationKey)
	}

	der, err := DecodeBase64(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrInvalidAuthorizationKey, err)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		ecKey, secErr := x509.ParseECPrivateKey(der)
		if secErr != nil {
			return nil, fmt.Errorf("%w: parse PKCS#8: %v", ErrInvalidAuthorizationKey, err)
		}
		parsed = ecKey
	}

	priv, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected ECDSA key, got %T", ErrInvalidAuthorizationKey, parsed)
	}
	if priv.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: expected P-256 curve, got %s", ErrInvalidAuthorizationKey, priv.Curve.Params().Name)
	}
	return priv, nil
}

// SignRequestPayload signs msg with the authorization key and returns the
// base64 DER signature.
func SignRequestPayload(key string, msg []byte) (string, error) {
	priv, err := ParseAuthorizationKey(key)
	if err != nil {
		return "", err
	}
	return SignWithKey(priv, msg)
}

// SignWithKey signs SHA-256(msg) with ECDSA. Nonces are randomized, so two
// signatures over the same message differ but both verify.
func SignWithKey(priv *ecdsa.PrivateKey, msg []byte) (string, error) {
	if priv == nil {
		return "", fmt.Errorf("%w: nil key", ErrInvalidAuthorizationKey)
	}
	digest := sha256.Sum256(msg)
	sig, err := ecdsa.SignASN1(random(), priv, digest[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return ToBase64(sig), nil
}

// VerifyRequestSignature checks a base64 DER signature over msg.
func VerifyRequestSignature(pub *ecdsa.PublicKey, msg []byte, signature string) error {
	if pub == nil {
		return fmt.Errorf("%w: nil public key", ErrSignatureVerificationFailed)
	}
	sig, err := DecodeBase64(signature)
	if err != nil {
		return fmt.Errorf("%w: decode signature: %v", ErrSignatureVerificationFailed, err)
	}
	digest := sha256.Sum256(msg)
	if !ecdsa.VerifyASN1(pub, digest[:], sig) {
		return ErrSignatureVerificationFailed
	}
	return nil
}

// AuthorizationKeyPair is a freshly generated authorization key in the
// formats accepted by the API.
type AuthorizationKeyPair struct {
	// PrivateKey is "wallet-auth:" followed by base64 PKCS#8.
	PrivateKey string
	// PublicKeyB64 is the base64 DER SubjectPublicKeyInfo to register as an
	// owner or key quorum member.
	PublicKeyB64 string
}

// GenerateAuthorizationKey creates a new P-256 authorization key.
func GenerateAuthorizationKey() (*AuthorizationKeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), random())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal private key: %v", ErrKeyGeneration, err)
	}
	pub, err := PublicKeyToBase64(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	return &AuthorizationKeyPair{
		PrivateKey:   AuthorizationKeyPrefix + ToBase64(der),
		PublicKeyB64: pub,
	}, nil
}

// PublicKeyToBase64 returns the base64 DER SubjectPublicKeyInfo of pub.
func PublicKeyToBase64(pub any) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	return ToBase64(der), nil
}

// ParsePublicKey decodes a base64 DER SubjectPublicKeyInfo holding a P-256
// ECDSA public key.
func ParsePublicKey(b64 string) (*ecdsa.PublicKey, error) {
	der, err := DecodeBase64(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode public key: %v", ErrInvalidInput, err)
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key: %v", ErrInvalidInput, err)
	}
	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok || pub.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: expected P-256 public key", ErrInvalidInput)
	}
	return pub, nil
}

func random() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}
