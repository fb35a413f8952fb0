package crypto

import "errors"

var (
	// ErrInvalidAuthorizationKey is returned when an authorization key cannot
	// be decoded or is not a P-256 ECDSA key.
	ErrInvalidAuthorizationKey = errors.New("invalid authorization key")

	// ErrSigningFailed is returned when the signing primitive rejects the key.
	ErrSigningFailed = errors.New("signing failed")

	// ErrSignatureVerificationFailed is returned when a signature does not
	// verify against the public key and message.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")

	// ErrKeyGeneration is returned when the random source or curve fails to
	// produce an ephemeral key.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrInvalidInput is returned for structurally invalid decryption input:
	// bad base64, empty fields or an encapsulated key of the wrong size.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecryptionFailed is returned when decapsulation or AEAD
	// authentication fails.
	ErrDecryptionFailed = errors.New("failed to decrypt")
)
