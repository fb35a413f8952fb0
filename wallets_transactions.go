package privy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scionx/privy-go/internal/poll"
)

// Transaction statuses reported by TransactionStatus.
const (
	TxStatusPending           = "pending"
	TxStatusBroadcasted       = "broadcasted"
	TxStatusConfirmed         = "confirmed"
	TxStatusFinalized         = "finalized"
	TxStatusExecutionReverted = "execution_reverted"
	TxStatusFailed            = "failed"
	TxStatusReplaced          = "replaced"
	TxStatusProviderError     = "provider_error"
)

// TransactionFinal reports whether status will not change again.
func TransactionFinal(status string) bool {
	switch status {
	case TxStatusConfirmed, TxStatusFinalized, TxStatusExecutionReverted,
		TxStatusFailed, TxStatusReplaced, TxStatusProviderError:
		return true
	}
	return false
}

// WaitOption configures WaitForTransaction.
type WaitOption func(*poll.Config)

// WithPollInterval sets the first wait between polls. Default: 2 seconds
func WithPollInterval(d time.Duration) WaitOption {
	return func(c *poll.Config) {
		c.InitialInterval = d
	}
}

// WithMaxPollInterval caps the wait between polls. Default: 30 seconds
func WithMaxPollInterval(d time.Duration) WaitOption {
	return func(c *poll.Config) {
		c.MaxBackoff = d
	}
}

// Transaction returns the current status of a transaction by ID, such as
// SentTransaction.TransactionID.
func (s *WalletService) Transaction(ctx context.Context, transactionID string) (*TransactionStatus, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("%w: transaction ID is required", ErrInvalidArgument)
	}
	tx, err := s.client.api.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, wrapError(err)
	}
	return tx, nil
}

// WaitForTransaction polls a transaction until its status is final (see
// TransactionFinal) and returns it. The interval backs off while the status
// is unchanged. Bound the wait with ctx; on expiry the last observed status
// is returned with the context error. API errors end the wait immediately.
func (s *WalletService) WaitForTransaction(ctx context.Context, transactionID string, opts ...WaitOption) (*TransactionStatus, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("%w: transaction ID is required", ErrInvalidArgument)
	}
	cfg := poll.Config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	tx, err := poll.Until(ctx, cfg, func(ctx context.Context) (poll.Result[*TransactionStatus], error) {
		tx, err := s.Transaction(ctx, transactionID)
		if err != nil {
			return poll.Result[*TransactionStatus]{}, err
		}
		s.client.logger.Debug("transaction polled",
			zap.String("transaction_id", transactionID),
			zap.String("status", tx.Status))
		return poll.Result[*TransactionStatus]{
			Value: tx,
			State: tx.Status,
			Done:  TransactionFinal(tx.Status),
		}, nil
	})
	if err != nil {
		return tx, err
	}
	s.client.logger.Info("transaction final",
		zap.String("transaction_id", transactionID),
		zap.String("status", tx.Status))
	return tx, nil
}
