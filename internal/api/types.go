package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/scionx/privy-go/internal/canonical"
)

// Timestamp decodes either unix milliseconds or an RFC 3339 string.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

// MarshalJSON encodes the timestamp as unix milliseconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}

// AdditionalSigner grants a key quorum signing rights on a wallet.
type AdditionalSigner struct {
	SignerID          string   `json:"signer_id"`
	OverridePolicyIDs []string `json:"override_policy_ids,omitempty"`
}

// Owner identifies a wallet owner by public key or user.
type Owner struct {
	PublicKey string `json:"public_key,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// Wallet is a wallet resource.
type Wallet struct {
	ID                string             `json:"id"`
	Address           string             `json:"address"`
	ChainType         string             `json:"chain_type"`
	PublicKey         string             `json:"public_key,omitempty"`
	OwnerID           string             `json:"owner_id,omitempty"`
	PolicyIDs         []string           `json:"policy_ids,omitempty"`
	AdditionalSigners []AdditionalSigner `json:"additional_signers,omitempty"`
	CreatedAt         Timestamp          `json:"created_at"`
	ExportedAt        *Timestamp         `json:"exported_at,omitempty"`
}

// WalletList is a page of wallets. The API returns either a bare array or a
// {data, next_cursor} envelope; both decode here.
type WalletList struct {
	Data       []Wallet `json:"data"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *WalletList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		l.NextCursor = ""
		return json.Unmarshal(data, &l.Data)
	}
	type envelope WalletList
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*l = WalletList(env)
	return nil
}

// CreateWalletRequest is the POST /wallets body.
type CreateWalletRequest struct {
	ChainType         string             `json:"chain_type"`
	Owner             *Owner             `json:"owner,omitempty"`
	OwnerID           string             `json:"owner_id,omitempty"`
	PolicyIDs         []string           `json:"policy_ids,omitempty"`
	AdditionalSigners []AdditionalSigner `json:"additional_signers,omitempty"`
}

// UpdateWalletRequest is the PATCH /wallets/{id} body.
type UpdateWalletRequest struct {
	Owner             *Owner             `json:"owner,omitempty"`
	OwnerID           *string            `json:"owner_id,omitempty"`
	PolicyIDs         []string           `json:"policy_ids,omitempty"`
	AdditionalSigners []AdditionalSigner `json:"additional_signers,omitempty"`
}

// ListWalletsParams filters GET /wallets.
type ListWalletsParams struct {
	Cursor    string
	Limit     int
	ChainType string
	UserID    string
}

// BalanceParams selects the chain and asset for GET /wallets/{id}/balance.
type BalanceParams struct {
	Chain string
	Asset string
}

// TransactionsParams filters GET /wallets/{id}/transactions.
type TransactionsParams struct {
	Chain  string
	Asset  string
	Cursor string
	Limit  int
}

// ExportWalletRequest is the POST /wallets/{id}/export body.
type ExportWalletRequest struct {
	EncryptionType     string `json:"encryption_type"`
	RecipientPublicKey string `json:"recipient_public_key"`
}

// ExportWalletResponse carries the HPKE-encrypted wallet secret.
type ExportWalletResponse struct {
	EncryptionType  string `json:"encryption_type,omitempty"`
	Ciphertext      string `json:"ciphertext"`
	EncapsulatedKey string `json:"encapsulated_key"`
}

// KeyQuorumRequest is the POST /key_quorums body.
type KeyQuorumRequest struct {
	PublicKeys             []string `json:"public_keys"`
	AuthorizationThreshold int      `json:"authorization_threshold,omitempty"`
	DisplayName            string   `json:"display_name,omitempty"`
}

// KeyQuorum is a set of authorization keys that may own a wallet.
type KeyQuorum struct {
	ID                     string   `json:"id"`
	DisplayName            string   `json:"display_name,omitempty"`
	AuthorizationThreshold int      `json:"authorization_threshold,omitempty"`
	AuthorizationKeys      []struct {
		PublicKey   string `json:"public_key"`
		DisplayName string `json:"display_name,omitempty"`
	} `json:"authorization_keys,omitempty"`
	PublicKeys []string `json:"public_keys,omitempty"`
}

// Balance is one asset balance on one chain.
type Balance struct {
	Chain            string            `json:"chain"`
	Asset            string            `json:"asset"`
	RawValue         string            `json:"raw_value"`
	RawValueDecimals int               `json:"raw_value_decimals"`
	DisplayValues    map[string]string `json:"display_values,omitempty"`
}

// BalanceResponse is the GET /wallets/{id}/balance response. Older responses
// put the list under "data".
type BalanceResponse struct {
	Balances []Balance `json:"balances"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *BalanceResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Balances []Balance `json:"balances"`
		Data     []Balance `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Balances = raw.Balances
	if r.Balances == nil {
		r.Balances = raw.Data
	}
	return nil
}

// Transaction is one wallet transaction.
type Transaction struct {
	TransactionID   string          `json:"transaction_id,omitempty"`
	CAIP2           string          `json:"caip2"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	Status          string          `json:"status,omitempty"`
	CreatedAt       Timestamp       `json:"created_at"`
	Details         canonical.Value `json:"details"`
}

// TransactionList is a page of wallet transactions.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	NextCursor   string        `json:"next_cursor,omitempty"`
}

// TransactionStatus is the GET /transactions/{id} response.
type TransactionStatus struct {
	ID              string    `json:"id"`
	WalletID        string    `json:"wallet_id"`
	Status          string    `json:"status"`
	TransactionHash string    `json:"transaction_hash,omitempty"`
	CAIP2           string    `json:"caip2"`
	CreatedAt       Timestamp `json:"created_at"`
}

// RPCRequest is the POST /wallets/{id}/rpc body.
type RPCRequest struct {
	Method    string `json:"method"`
	CAIP2     string `json:"caip2,omitempty"`
	ChainType string `json:"chain_type,omitempty"`
	Params    any    `json:"params"`
	Sponsor   *bool  `json:"sponsor,omitempty"`
}

// RPCResponse is the POST /wallets/{id}/rpc response. Data is method specific.
type RPCResponse struct {
	Method string          `json:"method"`
	Data   json.RawMessage `json:"data"`
}
