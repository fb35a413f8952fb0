package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/x509"
	"fmt"
	"io"
)

// randReader is the random source used for key generation and signing.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// EphemeralKeyPair is a P-256 key pair used as the HPKE recipient for a
// single export.
type EphemeralKeyPair struct {
	private *ecdh.PrivateKey

	// PublicKey is the DER SubjectPublicKeyInfo of the public key.
	PublicKey []byte
	// PublicKeyB64 is PublicKey encoded as standard base64, the form sent as
	// recipient_public_key.
	PublicKeyB64 string
}

// GenerateEphemeralKeyPair creates a fresh P-256 key pair.
func GenerateEphemeralKeyPair() (*EphemeralKeyPair, error) {
	priv, err := ecdh.P256().GenerateKey(random())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return newEphemeralKeyPair(priv)
}

// KeyPairFromPrivateKey wraps an existing P-256 ECDH private key.
func KeyPairFromPrivateKey(priv *ecdh.PrivateKey) (*EphemeralKeyPair, error) {
	if priv == nil || priv.Curve() != ecdh.P256() {
		return nil, fmt.Errorf("%w: expected P-256 private key", ErrInvalidInput)
	}
	return newEphemeralKeyPair(priv)
}

// ParseKeyPair decodes a base64 PKCS#8 P-256 private key, as produced by
// [EphemeralKeyPair.MarshalPrivateKey].
func ParseKeyPair(pkcs8B64 string) (*EphemeralKeyPair, error) {
	der, err := DecodeBase64(pkcs8B64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode private key: %v", ErrInvalidInput, err)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", ErrInvalidInput, err)
	}
	ecKey, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected EC private key, got %T", ErrInvalidInput, parsed)
	}
	priv, err := ecKey.ECDH()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return KeyPairFromPrivateKey(priv)
}

func newEphemeralKeyPair(priv *ecdh.PrivateKey) (*EphemeralKeyPair, error) {
	der, err := x509.MarshalPKIXPublicKey(priv.PublicKey())
	if err != nil {
		return nil, fmt.Errorf("%w: marshal public key: %v", ErrKeyGeneration, err)
	}
	return &EphemeralKeyPair{
		private:      priv,
		PublicKey:    der,
		PublicKeyB64: ToBase64(der),
	}, nil
}

// PrivateKey returns the ECDH private key.
func (k *EphemeralKeyPair) PrivateKey() *ecdh.PrivateKey {
	return k.private
}

// MarshalPrivateKey returns the private key as base64 PKCS#8. Only callers
// that decrypt out of band need this; the export flow never serializes keys.
func (k *EphemeralKeyPair) MarshalPrivateKey() (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(k.private)
	if err != nil {
		return "", fmt.Errorf("marshal private key: %w", err)
	}
	return ToBase64(der), nil
}

// ValidateKeyPair reports whether the key pair is usable: the private key is
// P-256 and the exported public key matches it.
func ValidateKeyPair(kp *EphemeralKeyPair) bool {
	if kp == nil || kp.private == nil || kp.private.Curve() != ecdh.P256() {
		return false
	}
	der, err := x509.MarshalPKIXPublicKey(kp.private.PublicKey())
	if err != nil {
		return false
	}
	return string(der) == string(kp.PublicKey) && ToBase64(der) == kp.PublicKeyB64
}
