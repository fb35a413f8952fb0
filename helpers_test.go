package privy

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"sync"
	"testing"

	"github.com/cloudflare/circl/hpke"
	"github.com/cloudflare/circl/kem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scionx/privy-go/internal/api"
)

// newTestAuthorizationKey returns a "wallet-auth:" key and its public half.
func newTestAuthorizationKey(t *testing.T) (string, *ecdsa.PublicKey) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	return "wallet-auth:" + base64.StdEncoding.EncodeToString(der), &priv.PublicKey
}

// recipientKEMKey converts a base64 SPKI recipient key to a KEM public key.
func recipientKEMKey(t *testing.T, recipientB64 string) kem.PublicKey {
	t.Helper()
	der, err := base64.StdEncoding.DecodeString(recipientB64)
	require.NoError(t, err)
	parsed, err := x509.ParsePKIXPublicKey(der)
	require.NoError(t, err)
	ecPub, ok := parsed.(*ecdsa.PublicKey)
	require.True(t, ok, "recipient key is %T", parsed)
	ecdhPub, err := ecPub.ECDH()
	require.NoError(t, err)

	pk, err := hpke.KEM_P256_HKDF_SHA256.Scheme().UnmarshalBinaryPublicKey(ecdhPub.Bytes())
	require.NoError(t, err)
	return pk
}

// sealToRecipient encrypts plaintext to a base64 SPKI recipient key the way
// the export endpoint does.
func sealToRecipient(t *testing.T, recipientB64 string, plaintext []byte) *api.ExportWalletResponse {
	t.Helper()
	suite := hpke.NewSuite(hpke.KEM_P256_HKDF_SHA256, hpke.KDF_HKDF_SHA256, hpke.AEAD_ChaCha20Poly1305)
	sender, err := suite.NewSender(recipientKEMKey(t, recipientB64), nil)
	require.NoError(t, err)
	enc, sealer, err := sender.Setup(rand.Reader)
	require.NoError(t, err)
	ct, err := sealer.Seal(plaintext, nil)
	require.NoError(t, err)

	return &api.ExportWalletResponse{
		EncryptionType:  "HPKE",
		Ciphertext:      base64.StdEncoding.EncodeToString(ct),
		EncapsulatedKey: base64.StdEncoding.EncodeToString(enc),
	}
}

type signedCall struct {
	method    string
	url       string
	body      any
	signature string
}

// stubAPI is an in-memory walletAPI. Signed endpoints invoke the sign
// function exactly as the HTTP transport does and record the result.
type stubAPI struct {
	mu    sync.Mutex
	calls []signedCall

	err error

	exportFn func(req api.ExportWalletRequest) (*api.ExportWalletResponse, error)
	rpcFn    func(req api.RPCRequest) (*api.RPCResponse, error)

	createdKey string
	created    api.CreateWalletRequest

	txStatuses []string
	txPolls    int
}

const stubBaseURL = "https://api.example/v1"

func (s *stubAPI) AppID() string { return "app1" }

func (s *stubAPI) URL(path string) string { return stubBaseURL + "/" + path }

func (s *stubAPI) sign(method, path string, body any, sign api.SignFunc) error {
	call := signedCall{method: method, url: s.URL(path), body: body}
	if sign != nil {
		sig, err := sign(method, call.url, body)
		if err != nil {
			return err
		}
		call.signature = sig
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
	return nil
}

func (s *stubAPI) lastCall(t *testing.T) signedCall {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.calls)
	return s.calls[len(s.calls)-1]
}

func (s *stubAPI) CreateWallet(_ context.Context, req api.CreateWalletRequest, key string) (*api.Wallet, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created, s.createdKey = req, key
	return &api.Wallet{ID: "w-new", ChainType: req.ChainType}, nil
}

func (s *stubAPI) GetWallet(_ context.Context, id string) (*api.Wallet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &api.Wallet{ID: id}, nil
}

func (s *stubAPI) ListWallets(context.Context, api.ListWalletsParams) (*api.WalletList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &api.WalletList{Data: []api.Wallet{{ID: "w1"}}}, nil
}

func (s *stubAPI) GetBalance(context.Context, string, api.BalanceParams) (*api.BalanceResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &api.BalanceResponse{}, nil
}

func (s *stubAPI) ListTransactions(context.Context, string, api.TransactionsParams) (*api.TransactionList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &api.TransactionList{}, nil
}

func (s *stubAPI) UpdateWallet(_ context.Context, id string, req api.UpdateWalletRequest, sign api.SignFunc) (*api.Wallet, error) {
	if err := s.sign("PATCH", "wallets/"+id, req, sign); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return &api.Wallet{ID: id, PolicyIDs: req.PolicyIDs}, nil
}

func (s *stubAPI) ExportWallet(_ context.Context, id string, req api.ExportWalletRequest, sign api.SignFunc) (*api.ExportWalletResponse, error) {
	if err := s.sign("POST", "wallets/"+id+"/export", req, sign); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.exportFn(req)
}

func (s *stubAPI) WalletRPC(_ context.Context, id string, req api.RPCRequest, sign api.SignFunc) (*api.RPCResponse, error) {
	if err := s.sign("POST", "wallets/"+id+"/rpc", req, sign); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.rpcFn(req)
}

func (s *stubAPI) CreateKeyQuorum(_ context.Context, req api.KeyQuorumRequest) (*api.KeyQuorum, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &api.KeyQuorum{ID: "kq1", PublicKeys: req.PublicKeys}, nil
}

func (s *stubAPI) GetKeyQuorum(_ context.Context, id string) (*api.KeyQuorum, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &api.KeyQuorum{ID: id}, nil
}

// GetTransaction reports txStatuses in order, repeating the last one.
func (s *stubAPI) GetTransaction(_ context.Context, id string) (*api.TransactionStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.txPolls
	if i >= len(s.txStatuses) {
		i = len(s.txStatuses) - 1
	}
	s.txPolls++
	return &api.TransactionStatus{ID: id, WalletID: "w1", Status: s.txStatuses[i]}, nil
}

// newStubClient builds a Client over stub with the given options.
func newStubClient(stub *stubAPI, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return newClient(stub, cfg, nil)
}
