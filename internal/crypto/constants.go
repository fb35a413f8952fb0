package crypto

import (
	"github.com/cloudflare/circl/hpke"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// AuthorizationKeyPrefix prefixes authorization keys issued by the dashboard.
	AuthorizationKeyPrefix = "wallet-auth:"

	// KEMID identifies DHKEM(P-256, HKDF-SHA256).
	KEMID = uint16(hpke.KEM_P256_HKDF_SHA256)
	// KDFID identifies HKDF-SHA256.
	KDFID = uint16(hpke.KDF_HKDF_SHA256)
	// AEADID identifies ChaCha20-Poly1305.
	AEADID = uint16(hpke.AEAD_ChaCha20Poly1305)

	// EncapsulatedKeySize is the size of an uncompressed P-256 point.
	EncapsulatedKeySize = 65
	// AEADTagSize is Nt for ChaCha20-Poly1305. Shorter ciphertexts are
	// rejected before decapsulation.
	AEADTagSize = chacha20poly1305.Overhead
)

// EncryptionType is the encryption_type value sent with export requests.
const EncryptionType = "HPKE"

// Ciphersuite is the human-readable name of the fixed HPKE suite.
const Ciphersuite = "DHKEM(P-256, HKDF-SHA256), HKDF-SHA256, ChaCha20-Poly1305"
