package privy

import (
	"github.com/scionx/privy-go/internal/crypto"
)

// HPKE suite used for wallet export. It is fixed and never negotiated.
const (
	HPKEKEMID  = crypto.KEMID  // DHKEM(P-256, HKDF-SHA256)
	HPKEKDFID  = crypto.KDFID  // HKDF-SHA256
	HPKEAEADID = crypto.AEADID // ChaCha20-Poly1305

	// HPKECiphersuite names the suite for display.
	HPKECiphersuite = crypto.Ciphersuite
)

// HPKEKeys is a recipient key pair for manual export decryption.
type HPKEKeys struct {
	// PublicKey is base64 DER SPKI, the format expected as
	// recipient_public_key.
	PublicKey string
	// PrivateKey is base64 DER PKCS#8. Keep it in memory only.
	PrivateKey string
}

// GenerateHPKEKeys creates a fresh P-256 recipient key pair for ExportRaw.
func GenerateHPKEKeys() (*HPKEKeys, error) {
	kp, err := crypto.GenerateEphemeralKeyPair()
	if err != nil {
		return nil, newHpkeError(err)
	}
	priv, err := kp.MarshalPrivateKey()
	if err != nil {
		return nil, newHpkeError(err)
	}
	return &HPKEKeys{PublicKey: kp.PublicKeyB64, PrivateKey: priv}, nil
}

// DecryptOption configures DecryptHPKE.
type DecryptOption func(*decryptConfig)

type decryptConfig struct {
	info []byte
	aad  []byte
}

// WithInfo sets the HPKE info string. Export responses use none.
func WithInfo(info []byte) DecryptOption {
	return func(c *decryptConfig) {
		c.info = info
	}
}

// WithAAD sets the additional authenticated data. Export responses use none.
func WithAAD(aad []byte) DecryptOption {
	return func(c *decryptConfig) {
		c.aad = aad
	}
}

// DecryptHPKE opens an HPKE base-mode ciphertext addressed to privateKey
// (base64 PKCS#8, as in HPKEKeys). Failures are returned as *HpkeError.
func DecryptHPKE(ciphertext, encapsulatedKey, privateKey string, opts ...DecryptOption) ([]byte, error) {
	cfg := decryptConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	kp, err := crypto.ParseKeyPair(privateKey)
	if err != nil {
		return nil, &HpkeError{Stage: StageDecode, Message: "invalid private key", Err: err}
	}
	plaintext, err := crypto.OpenBase(ciphertext, encapsulatedKey, kp, cfg.info, cfg.aad)
	if err != nil {
		return nil, newHpkeError(err)
	}
	return plaintext, nil
}

// DecryptExportResponse decrypts the result of ExportRaw with the private
// key of the recipient key pair.
func DecryptExportResponse(resp *ExportResponse, privateKey string) ([]byte, error) {
	if resp == nil || resp.Ciphertext == "" || resp.EncapsulatedKey == "" {
		return nil, &HpkeError{Stage: StageResponse, Message: "invalid export response"}
	}
	return DecryptHPKE(resp.Ciphertext, resp.EncapsulatedKey, privateKey)
}
