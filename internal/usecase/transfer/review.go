// usecase/transfer/review.go
package transfer

import (
	"context"
	"fmt"

	"transfer-service/internal/domain"

	"go.uber.org/zap"
)

type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// ReviewTransfer applies an admin decision to a pending external
// transfer. Approval decrements the balance atomically with the status
// change; rejection requires a reason. Already-resolved transfers and
// balance shortfalls come back as typed rejections with no mutation.
func (s *Service) ReviewTransfer(ctx context.Context, transferID string, adminID int64, action ReviewAction, reason string) (*domain.Transaction, error) {
	var (
		t   *domain.Transaction
		err error
	)

	switch action {
	case ActionApprove:
		t, err = s.transactions.Approve(ctx, transferID, adminID)
	case ActionReject:
		if reason == "" {
			return nil, domain.ErrReasonRequired
		}
		t, err = s.transactions.Reject(ctx, transferID, adminID, reason)
	default:
		return nil, &ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", action)}
	}
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyTransferResolved(t.UserID, t, t.Status, reason)
	s.logger.Info("transfer reviewed",
		zap.String("transaction_id", t.ID),
		zap.Int64("admin_id", adminID),
		zap.String("action", string(action)),
		zap.String("status", string(t.Status)))
	return t, nil
}

// GetTransaction returns one of the caller's own transactions. Another
// user's transaction is indistinguishable from a missing one.
func (s *Service) GetTransaction(ctx context.Context, userID int64, id string) (*domain.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

// ListTransactions is the poll-based fallback for clients without a
// live connection.
func (s *Service) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.transactions.ListByUser(ctx, userID, limit, offset)
}
