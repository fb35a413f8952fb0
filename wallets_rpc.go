package privy

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/scionx/privy-go/internal/api"
)

// Wallet RPC methods.
const (
	MethodSign7702Authorization = "eth_sign7702Authorization"
	MethodEthSendTransaction    = "eth_sendTransaction"
	MethodSecp256k1Sign         = "secp256k1_sign"
)

// Sign7702Option configures Sign7702Authorization.
type Sign7702Option func(*sign7702Params)

type sign7702Params struct {
	nonce int64
	opts  []RequestOption
}

// WithNonce sets the authorization nonce. Default: 0
func WithNonce(nonce int64) Sign7702Option {
	return func(p *sign7702Params) {
		p.nonce = nonce
	}
}

// WithSigning applies request signing options to an RPC call.
func WithSigning(opts ...RequestOption) Sign7702Option {
	return func(p *sign7702Params) {
		p.opts = append(p.opts, opts...)
	}
}

// Sign7702Authorization asks the wallet to sign an EIP-7702 authorization
// delegating to contract on chainID. The request is signed like Export.
func (s *WalletService) Sign7702Authorization(ctx context.Context, walletID, contract string, chainID int64, opts ...Sign7702Option) (*Authorization7702, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(contract) == "" {
		return nil, fmt.Errorf("%w: contract address is required", ErrInvalidArgument)
	}
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("%w: contract %q is not a hex address", ErrInvalidArgument, contract)
	}
	if chainID <= 0 {
		return nil, fmt.Errorf("%w: chain ID is required", ErrInvalidArgument)
	}

	p := sign7702Params{}
	for _, opt := range opts {
		opt(&p)
	}

	resp, err := s.rpc(ctx, walletID, api.RPCRequest{
		Method: MethodSign7702Authorization,
		Params: map[string]any{
			"contract": contract,
			"chain_id": chainID,
			"nonce":    p.nonce,
		},
	}, p.opts)
	if err != nil {
		return nil, err
	}

	var data struct {
		Authorization Authorization7702 `json:"authorization"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", MethodSign7702Authorization, err)
	}
	return &data.Authorization, nil
}

// EthTransaction is an Ethereum transaction for EthSendTransaction.
type EthTransaction struct {
	To    string
	Value *big.Int
	Data  []byte
}

func (tx EthTransaction) params() map[string]any {
	out := map[string]any{"to": tx.To}
	if tx.Value != nil {
		out["value"] = hexutil.EncodeBig(tx.Value)
	}
	if len(tx.Data) > 0 {
		out["data"] = hexutil.Encode(tx.Data)
	}
	return out
}

// EthSendTransaction has the wallet sign and broadcast tx on the chain
// identified by caip2 (e.g. "eip155:8453"). A non-nil sponsor requests gas
// sponsorship.
func (s *WalletService) EthSendTransaction(ctx context.Context, walletID, caip2 string, tx EthTransaction, sponsor *bool, opts ...RequestOption) (*SentTransaction, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(caip2) == "" {
		return nil, fmt.Errorf("%w: caip2 chain ID is required", ErrInvalidArgument)
	}
	if !common.IsHexAddress(tx.To) {
		return nil, fmt.Errorf("%w: recipient %q is not a hex address", ErrInvalidArgument, tx.To)
	}
	if tx.Value != nil && tx.Value.Sign() < 0 {
		return nil, fmt.Errorf("%w: value must not be negative", ErrInvalidArgument)
	}

	resp, err := s.rpc(ctx, walletID, api.RPCRequest{
		Method:    MethodEthSendTransaction,
		CAIP2:     caip2,
		ChainType: ChainTypeEthereum,
		Params:    map[string]any{"transaction": tx.params()},
		Sponsor:   sponsor,
	}, opts)
	if err != nil {
		return nil, err
	}

	var sent SentTransaction
	if err := json.Unmarshal(resp.Data, &sent); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", MethodEthSendTransaction, err)
	}
	return &sent, nil
}

// Secp256k1Sign has the wallet sign a 32-byte hash given as 0x-prefixed hex.
func (s *WalletService) Secp256k1Sign(ctx context.Context, walletID, hash string, opts ...RequestOption) (*RawSignature, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(hash) == "" {
		return nil, fmt.Errorf("%w: hash is required", ErrInvalidArgument)
	}
	raw, err := hexutil.Decode(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: hash: %v", ErrInvalidArgument, err)
	}
	if len(raw) != common.HashLength {
		return nil, fmt.Errorf("%w: hash is %d bytes, want %d", ErrInvalidArgument, len(raw), common.HashLength)
	}

	resp, err := s.rpc(ctx, walletID, api.RPCRequest{
		Method: MethodSecp256k1Sign,
		Params: map[string]any{"hash": hash},
	}, opts)
	if err != nil {
		return nil, err
	}

	var sig RawSignature
	if err := json.Unmarshal(resp.Data, &sig); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", MethodSecp256k1Sign, err)
	}
	return &sig, nil
}

func (s *WalletService) rpc(ctx context.Context, walletID string, req api.RPCRequest, opts []RequestOption) (*api.RPCResponse, error) {
	resp, err := s.client.api.WalletRPC(ctx, walletID, req, s.client.signer(opts))
	if err != nil {
		return nil, wrapError(err)
	}
	return resp, nil
}
