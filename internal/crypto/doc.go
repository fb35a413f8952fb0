// Package crypto provides the cryptographic primitives used by the Privy
// wallet API client: request signing with authorization keys and receiver-side
// HPKE decryption of exported wallet keys.
//
// # Algorithm Suite
//
// The package uses a single, fixed set of algorithms:
//
//   - ECDSA P-256 over SHA-256: signs canonical request payloads with an
//     authorization key. Signatures are ASN.1 DER encoded, then base64.
//
//   - DHKEM(P-256, HKDF-SHA256) (RFC 9180, KEM id 0x0010): recovers the shared
//     secret from the encapsulated key returned by the export endpoint.
//
//   - HKDF-SHA256 (RFC 9180, KDF id 0x0001): derives the AEAD key and base
//     nonce through the HPKE key schedule.
//
//   - ChaCha20-Poly1305 (RFC 9180, AEAD id 0x0003): opens the exported secret.
//
// The suite is not negotiated. A server encrypting with anything else produces
// ciphertexts that fail to open.
//
// # Key Formats
//
// Authorization keys are strings of the form "wallet-auth:" followed by the
// base64 encoding of a DER PKCS#8 P-256 private key. PEM framing and embedded
// whitespace are tolerated. See [ParseAuthorizationKey].
//
// Ephemeral HPKE recipient keys are generated per export with
// [GenerateEphemeralKeyPair]. The public half is transmitted as the base64
// encoding of its DER SubjectPublicKeyInfo. The private half never leaves
// process memory.
//
// # Decryption
//
// [OpenBase] implements the RFC 9180 base-mode receiver:
//
//	kp, err := crypto.GenerateEphemeralKeyPair()
//	// send kp.PublicKeyB64 to the server ...
//	plaintext, err := crypto.OpenBase(resp.Ciphertext, resp.EncapsulatedKey, kp, nil, nil)
//
// Malformed input fails with [ErrInvalidInput]. Decapsulation or
// authentication failures fail with [ErrDecryptionFailed]. Plaintext is never
// returned on tag mismatch.
//
// Keep authorization keys and exported secrets out of logs.
package crypto
