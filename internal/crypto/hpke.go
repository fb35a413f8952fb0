package crypto

import (
	"crypto/ecdh"
	"fmt"

	"github.com/cloudflare/circl/hpke"
)

// Stages reported by OpenError.
const (
	StageDecode      = "decode"
	StageDecapsulate = "decapsulate"
	StageDecrypt     = "decrypt"
)

// suite is the only HPKE suite the export endpoint uses.
var suite = hpke.NewSuite(hpke.KEM_P256_HKDF_SHA256, hpke.KDF_HKDF_SHA256, hpke.AEAD_ChaCha20Poly1305)

// OpenError records the step at which decryption failed. It wraps either
// ErrInvalidInput or ErrDecryptionFailed.
type OpenError struct {
	Stage string
	Err   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("hpke %s: %v", e.Stage, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// OpenBase decrypts a base64 ciphertext addressed to kp. encapsulatedKey is
// the base64 KEM output returned alongside it. info and aad may be nil.
func OpenBase(ciphertext, encapsulatedKey string, kp *EphemeralKeyPair, info, aad []byte) ([]byte, error) {
	if ciphertext == "" {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: empty ciphertext", ErrInvalidInput)}
	}
	if encapsulatedKey == "" {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: empty encapsulated key", ErrInvalidInput)}
	}

	ct, err := DecodeBase64(ciphertext)
	if err != nil {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: ciphertext: %v", ErrInvalidInput, err)}
	}
	enc, err := DecodeBase64(encapsulatedKey)
	if err != nil {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: encapsulated key: %v", ErrInvalidInput, err)}
	}

	if kp == nil || kp.private == nil {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: missing recipient key", ErrInvalidInput)}
	}
	return Open(ct, enc, kp.private, info, aad)
}

// Open decrypts raw ciphertext bytes with the recipient's private key in
// RFC 9180 base mode.
func Open(ciphertext, enc []byte, priv *ecdh.PrivateKey, info, aad []byte) ([]byte, error) {
	if len(enc) != EncapsulatedKeySize {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: encapsulated key is %d bytes, want %d", ErrInvalidInput, len(enc), EncapsulatedKeySize)}
	}
	if _, err := ecdh.P256().NewPublicKey(enc); err != nil {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: encapsulated key is not a P-256 point", ErrInvalidInput)}
	}
	if len(ciphertext) < AEADTagSize {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: ciphertext shorter than tag", ErrInvalidInput)}
	}

	if priv == nil {
		return nil, &OpenError{Stage: StageDecode, Err: fmt.Errorf("%w: missing recipient key", ErrInvalidInput)}
	}

	sk, err := hpke.KEM_P256_HKDF_SHA256.Scheme().UnmarshalBinaryPrivateKey(priv.Bytes())
	if err != nil {
		return nil, &OpenError{Stage: StageDecapsulate, Err: fmt.Errorf("%w: unmarshal private key: %v", ErrDecryptionFailed, err)}
	}
	receiver, err := suite.NewReceiver(sk, info)
	if err != nil {
		return nil, &OpenError{Stage: StageDecapsulate, Err: fmt.Errorf("%w: %v", ErrDecryptionFailed, err)}
	}
	opener, err := receiver.Setup(enc)
	if err != nil {
		return nil, &OpenError{Stage: StageDecapsulate, Err: fmt.Errorf("%w: %v", ErrDecryptionFailed, err)}
	}

	plaintext, err := opener.Open(ciphertext, aad)
	if err != nil {
		return nil, &OpenError{Stage: StageDecrypt, Err: ErrDecryptionFailed}
	}
	return plaintext, nil
}
