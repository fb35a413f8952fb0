package privy

import (
	"fmt"
	"strings"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// EthereumAddress returns the checksummed address controlled by an exported
// Ethereum wallet secret (hex, with or without 0x). Use it to confirm that
// Export returned the key of the expected wallet.
func EthereumAddress(secret []byte) (string, error) {
	hexKey := strings.TrimSpace(string(secret))
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")

	priv, err := gethcrypto.HexToECDSA(hexKey)
	if err != nil {
		return "", fmt.Errorf("%w: not a secp256k1 private key: %v", ErrInvalidArgument, err)
	}
	return gethcrypto.PubkeyToAddress(priv.PublicKey).Hex(), nil
}
