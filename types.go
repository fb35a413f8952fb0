package privy

import (
	"github.com/scionx/privy-go/internal/api"
)

// Chain types accepted by CreateWalletParams.
const (
	ChainTypeEthereum = "ethereum"
	ChainTypeSolana   = "solana"
)

// Wallet is a server-managed wallet.
type Wallet = api.Wallet

// WalletList is a page of wallets.
type WalletList = api.WalletList

// Owner identifies a wallet owner by SPKI public key or user ID.
type Owner = api.Owner

// AdditionalSigner grants a key quorum signing rights on a wallet.
type AdditionalSigner = api.AdditionalSigner

// Timestamp is a time decoded from unix milliseconds or RFC 3339.
type Timestamp = api.Timestamp

// Balance is one asset balance on one chain. DisplayValues maps a currency
// (e.g. "usd") to a formatted amount.
type Balance = api.Balance

// BalanceResponse lists a wallet's balances.
type BalanceResponse = api.BalanceResponse

// Transaction is one wallet transaction. Details holds the type-specific
// fields as a Value.
type Transaction = api.Transaction

// TransactionList is a page of transactions.
type TransactionList = api.TransactionList

// TransactionStatus is the state of a transaction sent through wallet RPC.
type TransactionStatus = api.TransactionStatus

// KeyQuorum is a set of authorization keys that can own a wallet.
type KeyQuorum = api.KeyQuorum

// ExportResponse is the encrypted wallet secret returned by ExportRaw.
type ExportResponse = api.ExportWalletResponse

// ListWalletsParams filters List.
type ListWalletsParams = api.ListWalletsParams

// BalanceParams selects the chain and asset for Balance.
type BalanceParams = api.BalanceParams

// TransactionsParams filters Transactions.
type TransactionsParams = api.TransactionsParams

// CreateWalletParams describes a wallet to create.
type CreateWalletParams struct {
	ChainType         string
	Owner             *Owner
	OwnerID           string
	PolicyIDs         []string
	AdditionalSigners []AdditionalSigner

	// IdempotencyKey is sent as privy-idempotency-key. A random UUID is used
	// when empty.
	IdempotencyKey string
}

// UpdateWalletParams describes changes to a wallet. Nil and empty fields
// are left unchanged.
type UpdateWalletParams struct {
	Owner             *Owner
	OwnerID           *string
	PolicyIDs         []string
	AdditionalSigners []AdditionalSigner
}

// Authorization7702 is an EIP-7702 authorization signed by a wallet.
type Authorization7702 struct {
	Contract string `json:"contract"`
	ChainID  int64  `json:"chain_id"`
	Nonce    int64  `json:"nonce"`
	R        string `json:"r"`
	S        string `json:"s"`
	YParity  int    `json:"y_parity"`
}

// SentTransaction is the result of EthSendTransaction.
type SentTransaction struct {
	Hash          string `json:"hash"`
	CAIP2         string `json:"caip2"`
	TransactionID string `json:"transaction_id"`
}

// RawSignature is the result of Secp256k1Sign.
type RawSignature struct {
	Signature string `json:"signature"`
	Encoding  string `json:"encoding"`
}
