package transfer

import (
	"context"
	"testing"
	"time"

	"transfer-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:     "tx-1",
		UserID: 1,
		Type:   domain.TransactionDebit,
		Amount: 500,
		Status: domain.StatusPending,
		Meta: domain.TransferMeta{
			TransferType:     domain.TransferExternalBank,
			Recipient:        "********3456",
			BankName:         "First National",
			RequiresApproval: true,
		},
	}
}

func TestReviewApprove(t *testing.T) {
	approved := pendingTransaction()
	approved.Status = domain.StatusProcessing
	approved.Meta.Resolution = &domain.Resolution{Outcome: "approved", AdminID: 9, ResolvedAt: time.Now()}

	var calls int
	tx := &mockTxStore{
		approveFn: func(id string, adminID int64) (*domain.Transaction, error) {
			calls++
			assert.Equal(t, "tx-1", id)
			assert.Equal(t, int64(9), adminID)
			return approved, nil
		},
	}
	s, _, notifier := newTestService(tx, activeUser())

	got, err := s.ReviewTransfer(context.Background(), "tx-1", 9, ActionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, domain.StatusProcessing, got.Status)
	require.Len(t, notifier.resolved, 1)
	assert.Equal(t, domain.StatusProcessing, notifier.resolved[0])
}

func TestReviewApproveAlreadyResolved(t *testing.T) {
	tx := &mockTxStore{
		approveFn: func(string, int64) (*domain.Transaction, error) {
			return nil, domain.NewRejection(domain.CodeInvalidTransferStatus, "transfer has already been resolved")
		},
	}
	s, _, notifier := newTestService(tx, activeUser())

	_, err := s.ReviewTransfer(context.Background(), "tx-1", 9, ActionApprove, "")
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidTransferStatus, rej.Code)
	assert.Empty(t, notifier.resolved, "a failed review emits nothing")
}

func TestReviewApproveBalanceDropped(t *testing.T) {
	tx := &mockTxStore{
		approveFn: func(string, int64) (*domain.Transaction, error) {
			return nil, domain.NewRejection(domain.CodeInsufficientUserBalance, "user balance no longer covers this transfer")
		},
	}
	s, _, notifier := newTestService(tx, activeUser())

	_, err := s.ReviewTransfer(context.Background(), "tx-1", 9, ActionApprove, "")
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInsufficientUserBalance, rej.Code)
	assert.Empty(t, notifier.resolved)
}

func TestReviewRejectRequiresReason(t *testing.T) {
	s, _, notifier := newTestService(&mockTxStore{}, activeUser())

	_, err := s.ReviewTransfer(context.Background(), "tx-1", 9, ActionReject, "")
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
	assert.Empty(t, notifier.resolved)
}

func TestReviewReject(t *testing.T) {
	rejected := pendingTransaction()
	rejected.Status = domain.StatusRejected
	rejected.Meta.Resolution = &domain.Resolution{Outcome: "rejected", AdminID: 9, Reason: "suspicious destination"}

	tx := &mockTxStore{
		rejectFn: func(id string, adminID int64, reason string) (*domain.Transaction, error) {
			assert.Equal(t, "suspicious destination", reason)
			return rejected, nil
		},
	}
	s, _, notifier := newTestService(tx, activeUser())

	got, err := s.ReviewTransfer(context.Background(), "tx-1", 9, ActionReject, "suspicious destination")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	require.Len(t, notifier.resolved, 1)
	assert.Equal(t, domain.StatusRejected, notifier.resolved[0])
}

func TestReviewUnknownAction(t *testing.T) {
	s, _, _ := newTestService(&mockTxStore{}, activeUser())

	_, err := s.ReviewTransfer(context.Background(), "tx-1", 9, "escalate", "")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestGetTransactionOwnership(t *testing.T) {
	other := pendingTransaction()
	other.UserID = 42
	tx := &mockTxStore{
		getByIDFn: func(string) (*domain.Transaction, error) { return other, nil },
	}
	s, _, _ := newTestService(tx, activeUser())

	_, err := s.GetTransaction(context.Background(), 1, "tx-1")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	got, err := s.GetTransaction(context.Background(), 42, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, "tx-1", got.ID)
}
