// usecase/transfer/transfer.go
package transfer

import (
	"context"
	"fmt"
	"math"
	"time"

	"transfer-service/internal/domain"
	"transfer-service/internal/risk"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TransactionStore is the persistence surface the decision engine needs.
type TransactionStore interface {
	CreatePending(ctx context.Context, t *domain.Transaction) error
	CreateCompleted(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error)
	DebitCountSince(ctx context.Context, userID int64, since time.Time) (int, error)
	DebitStatsSince(ctx context.Context, userID int64, since time.Time) (avg, max float64, err error)
	CountBankTransfers(ctx context.Context, userID int64, bank string) (int, error)
	DailyDebitUsage(ctx context.Context, userID int64, since time.Time) (sum float64, count int, err error)
	PendingExternalDebitSum(ctx context.Context, userID int64) (float64, error)
	Approve(ctx context.Context, id string, adminID int64) (*domain.Transaction, error)
	Reject(ctx context.Context, id string, adminID int64, reason string) (*domain.Transaction, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type AuditLog interface {
	Record(ctx context.Context, ev *domain.SecurityEvent) error
}

// Notifier delivers transfer events to the owning user's live
// connections. Both calls are fire-and-forget: delivery failure is not
// an error and must never surface to the triggering request.
type Notifier interface {
	NotifyTransferPending(userID int64, t *domain.Transaction)
	NotifyTransferResolved(userID int64, t *domain.Transaction, status domain.TransactionStatus, reason string)
}

type Outcome string

const (
	OutcomeCompleted       Outcome = "completed"
	OutcomePendingApproval Outcome = "pending_approval"
	OutcomeBlocked         Outcome = "blocked"
	OutcomeRejected        Outcome = "rejected"
)

// Result is the decision for one transfer attempt. Rejection is set for
// blocked and rejected outcomes; Transaction for completed and pending.
type Result struct {
	Outcome     Outcome
	Transaction *domain.Transaction
	Assessment  domain.RiskAssessment
	Rejection   *domain.Rejection
}

// ValidationError is a malformed-input refusal, reported per field
// before any side effect or aggregate read.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Service struct {
	transactions TransactionStore
	users        UserStore
	audit        AuditLog
	notifier     Notifier
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	transactions TransactionStore,
	users UserStore,
	audit AuditLog,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		transactions: transactions,
		users:        users,
		audit:        audit,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// RequestContext carries the transport-level facts the audit log wants.
type RequestContext struct {
	IPAddress string
	UserAgent string
}

func validateRequest(req *domain.TransferRequest) error {
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return &ValidationError{Field: "amount", Message: "amount must be a positive number"}
	}
	if !req.TransferType.Valid() {
		return &ValidationError{Field: "transfer_type", Message: "transfer_type must be checking, savings or external_bank"}
	}
	if req.RecipientInfo == "" {
		return &ValidationError{Field: "recipient_info", Message: "recipient_info is required"}
	}
	return nil
}

// CreateTransfer runs the full decision pipeline: validation, KYC gate,
// risk assessment, CRITICAL block, daily limits, balance check, then
// persistence and fan-out. Input validation happens before any
// aggregate is read.
func (s *Service) CreateTransfer(ctx context.Context, userID int64, req domain.TransferRequest, rc RequestContext) (*Result, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if req.TransferType.External() && req.BankName == "" {
		return &Result{
			Outcome:   OutcomeRejected,
			Rejection: domain.NewRejection(domain.CodeInvalidBank, "bank_name is required for external transfers"),
		}, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// KYC gate: refused before scoring, so the code stays KYC_REQUIRED
	// whatever the risk score would have been.
	if rej := risk.KYCGate(user.KYCStatus, req.Amount); rej != nil {
		return &Result{Outcome: OutcomeRejected, Rejection: rej}, nil
	}

	assessment := s.assess(ctx, userID, req)

	// CRITICAL is a hard gate: it blocks regardless of balance or
	// limits and leaves an audit trail.
	if assessment.Level == domain.RiskCritical {
		s.recordEvent(ctx, &domain.SecurityEvent{
			UserID:      userID,
			EventType:   domain.EventTransferBlocked,
			Description: "transfer blocked by risk engine",
			IPAddress:   rc.IPAddress,
			UserAgent:   rc.UserAgent,
			RiskLevel:   domain.RiskCritical,
			Metadata: map[string]interface{}{
				"amount":       req.Amount,
				"risk_score":   assessment.Score,
				"risk_factors": assessment.Factors,
			},
		})
		return &Result{
			Outcome:    OutcomeBlocked,
			Assessment: assessment,
			Rejection:  domain.NewRejection(domain.CodeHighRiskBlocked, "transfer blocked for security reasons, please contact support"),
		}, nil
	}

	sum, count, err := s.transactions.DailyDebitUsage(ctx, userID, s.startOfDay())
	if err != nil {
		return nil, err
	}
	if rej := risk.CheckLimits(user.KYCStatus, user.RiskLevel, req.Amount, risk.Usage{AmountToday: sum, CountToday: count}); rej != nil {
		return &Result{Outcome: OutcomeRejected, Assessment: assessment, Rejection: rej}, nil
	}

	t := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        domain.TransactionDebit,
		Amount:      req.Amount,
		Description: fmt.Sprintf("Transfer to %s", domain.MaskRecipient(req.RecipientInfo)),
		Meta: domain.TransferMeta{
			TransferType:     req.TransferType,
			Recipient:        domain.MaskRecipient(req.RecipientInfo),
			BankName:         req.BankName,
			RiskLevel:        assessment.Level,
			RequiresApproval: req.TransferType.External(),
			SubmittedAt:      s.now().UTC(),
		},
	}

	if req.TransferType.External() {
		// Hold-and-approve: funds stay in place, but the pending sum
		// counts against the available balance so concurrent pending
		// requests cannot overdraw.
		held, err := s.transactions.PendingExternalDebitSum(ctx, userID)
		if err != nil {
			return nil, err
		}
		if req.Amount > user.Balance-held {
			return &Result{
				Outcome:    OutcomeRejected,
				Assessment: assessment,
				Rejection:  domain.NewRejection(domain.CodeInsufficientFunds, "insufficient available balance for this transfer"),
			}, nil
		}

		t.Status = domain.StatusPending
		if err := s.transactions.CreatePending(ctx, t); err != nil {
			return nil, err
		}
		s.notifier.NotifyTransferPending(userID, t)
		s.logger.Info("external transfer pending approval",
			zap.String("transaction_id", t.ID),
			zap.Int64("user_id", userID),
			zap.Float64("amount", t.Amount),
			zap.String("risk_level", string(assessment.Level)))
		return &Result{Outcome: OutcomePendingApproval, Transaction: t, Assessment: assessment}, nil
	}

	// Internal transfer: settled immediately, deduction and COMPLETED
	// row in one atomic write.
	t.Status = domain.StatusCompleted
	if err := s.transactions.CreateCompleted(ctx, t); err != nil {
		if rej, ok := domain.AsRejection(err); ok {
			return &Result{Outcome: OutcomeRejected, Assessment: assessment, Rejection: rej}, nil
		}
		return nil, err
	}
	s.logger.Info("internal transfer completed",
		zap.String("transaction_id", t.ID),
		zap.Int64("user_id", userID),
		zap.Float64("amount", t.Amount))
	return &Result{Outcome: OutcomeCompleted, Transaction: t, Assessment: assessment}, nil
}

// assess gathers the history aggregates and scores the attempt. The
// three aggregate reads are independent, so they run concurrently. Any
// failure degrades to the fail-open MEDIUM fallback instead of blocking
// the transfer.
func (s *Service) assess(ctx context.Context, userID int64, req domain.TransferRequest) domain.RiskAssessment {
	now := s.now()
	var (
		count24h      int
		avg30d, max30 float64
		bankCount     int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count24h, err = s.transactions.DebitCountSince(gctx, userID, now.Add(-24*time.Hour))
		return err
	})
	g.Go(func() error {
		var err error
		avg30d, max30, err = s.transactions.DebitStatsSince(gctx, userID, now.AddDate(0, 0, -30))
		return err
	})
	if req.TransferType.External() {
		g.Go(func() error {
			var err error
			bankCount, err = s.transactions.CountBankTransfers(gctx, userID, req.BankName)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("risk aggregates unavailable, falling back to medium assessment",
			zap.Int64("user_id", userID),
			zap.Error(err))
		s.recordEvent(ctx, &domain.SecurityEvent{
			UserID:      userID,
			EventType:   domain.EventRiskEngineDown,
			Description: "risk aggregates unavailable, medium fallback applied",
			RiskLevel:   domain.RiskMedium,
		})
		return risk.Unavailable()
	}

	return risk.Score(risk.Input{
		Amount:       req.Amount,
		TransferType: req.TransferType,
		BankName:     req.BankName,
		Hour:         now.Hour(),
		Aggregates: risk.Aggregates{
			DebitCount24h:      count24h,
			PriorBankTransfers: bankCount,
			AvgDebit30d:        avg30d,
			MaxDebit30d:        max30,
		},
	})
}

func (s *Service) startOfDay() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// recordEvent appends to the audit log; a write failure is logged and
// swallowed so it can never fail the primary operation.
func (s *Service) recordEvent(ctx context.Context, ev *domain.SecurityEvent) {
	if err := s.audit.Record(ctx, ev); err != nil {
		s.logger.Error("failed to record security event",
			zap.String("event_type", ev.EventType),
			zap.Int64("user_id", ev.UserID),
			zap.Error(err))
	}
}
