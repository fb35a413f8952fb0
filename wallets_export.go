package privy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/scionx/privy-go/internal/api"
	"github.com/scionx/privy-go/internal/apierrors"
	"github.com/scionx/privy-go/internal/crypto"
	"github.com/scionx/privy-go/internal/metrics"
)

// EncryptionTypeHPKE is the only export encryption type.
const EncryptionTypeHPKE = crypto.EncryptionType

// Export retrieves a wallet's private key. A fresh ephemeral P-256 key is
// generated for the call, its public half is sent as the recipient key and
// the response is decrypted locally. The ephemeral key is discarded when
// Export returns.
//
// The request is signed with, in order of precedence, a signature from
// WithAuthorizationSignature, the context from WithRequestAuthorization, or
// the client's default context. Without any of them it is sent unsigned.
//
// API and transport failures are returned as *APIError or *NetworkError and
// no decryption is attempted. Key generation, malformed responses and
// decryption failures are returned as *HpkeError.
//
// The returned bytes are the wallet secret. Do not log them.
func (s *WalletService) Export(ctx context.Context, walletID string, opts ...RequestOption) ([]byte, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	c := s.client

	kp, err := crypto.GenerateEphemeralKeyPair()
	if err != nil {
		c.metrics.ExportOutcome(metrics.OutcomeKeygenError)
		return nil, newHpkeError(err)
	}

	resp, err := s.exportRaw(ctx, walletID, kp.PublicKeyB64, opts)
	if err != nil {
		c.metrics.ExportOutcome(exportFailureOutcome(err))
		c.logger.Warn("wallet export failed",
			zap.String("wallet_id", walletID),
			zap.Error(err))
		return nil, err
	}

	plaintext, err := decryptExport(resp, kp)
	if err != nil {
		c.metrics.ExportOutcome(metrics.OutcomeDecryptError)
		c.logger.Warn("wallet export decryption failed",
			zap.String("wallet_id", walletID),
			zap.String("stage", hpkeStage(err)))
		return nil, err
	}

	c.metrics.ExportOutcome(metrics.OutcomeSuccess)
	c.logger.Info("wallet exported", zap.String("wallet_id", walletID))
	return plaintext, nil
}

// ExportRaw requests the wallet secret encrypted to recipientPublicKey (base64
// DER SPKI, P-256) and returns the response without decrypting it. See
// DecryptExportResponse.
func (s *WalletService) ExportRaw(ctx context.Context, walletID, recipientPublicKey string, opts ...RequestOption) (*ExportResponse, error) {
	if err := requireWalletID(walletID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(recipientPublicKey) == "" {
		return nil, fmt.Errorf("%w: recipient public key is required", ErrInvalidArgument)
	}
	return s.exportRaw(ctx, walletID, recipientPublicKey, opts)
}

func (s *WalletService) exportRaw(ctx context.Context, walletID, recipientPublicKey string, opts []RequestOption) (*ExportResponse, error) {
	resp, err := s.client.api.ExportWallet(ctx, walletID, api.ExportWalletRequest{
		EncryptionType:     EncryptionTypeHPKE,
		RecipientPublicKey: recipientPublicKey,
	}, s.client.signer(opts))
	if err != nil {
		var decErr *apierrors.DecodeError
		if errors.As(err, &decErr) {
			return nil, &HpkeError{Stage: StageResponse, Message: "invalid export response", Err: err}
		}
		return nil, wrapError(err)
	}
	return resp, nil
}

func decryptExport(resp *ExportResponse, kp *crypto.EphemeralKeyPair) ([]byte, error) {
	if resp == nil || resp.Ciphertext == "" || resp.EncapsulatedKey == "" {
		return nil, &HpkeError{Stage: StageResponse, Message: "invalid export response"}
	}
	plaintext, err := crypto.OpenBase(resp.Ciphertext, resp.EncapsulatedKey, kp, nil, nil)
	if err != nil {
		return nil, newHpkeError(err)
	}
	return plaintext, nil
}

func exportFailureOutcome(err error) string {
	var authErr *AuthorizationError
	if errors.As(err, &authErr) {
		return metrics.OutcomeSigningError
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return metrics.OutcomeResponseError
	}
	var hpkeErr *HpkeError
	if errors.As(err, &hpkeErr) {
		return metrics.OutcomeDecryptError
	}
	return metrics.OutcomeTransportError
}

func hpkeStage(err error) string {
	var hpkeErr *HpkeError
	if errors.As(err, &hpkeErr) {
		return hpkeErr.Stage
	}
	return ""
}
