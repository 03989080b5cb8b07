// repository/transaction_repo.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"transfer-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{db: db}
}

const transactionColumns = `id, user_id, type, amount, description, status, metadata, created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var meta []byte
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.Status, &meta, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &t.Meta); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// CreatePending inserts an external transfer awaiting admin review. The
// user's balance is untouched; the pending amount is held logically via
// PendingExternalDebitSum at decision time.
func (r *TransactionRepo) CreatePending(ctx context.Context, t *domain.Transaction) error {
	meta, err := json.Marshal(t.Meta)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO transactions (id, user_id, type, amount, description, status, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at
    `
	return r.db.QueryRow(ctx, query,
		t.ID, t.UserID, t.Type, t.Amount, t.Description, t.Status, meta,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// CreateCompleted settles an internal transfer: the balance deduction
// and the COMPLETED row are a single database transaction, and the
// deduction only happens while the balance still covers the amount.
func (r *TransactionRepo) CreateCompleted(ctx context.Context, t *domain.Transaction) error {
	meta, err := json.Marshal(t.Meta)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1`,
		t.Amount, t.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewRejection(domain.CodeInsufficientFunds, "insufficient balance for this transfer")
	}

	query := `
        INSERT INTO transactions (id, user_id, type, amount, description, status, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at
    `
	if err := tx.QueryRow(ctx, query,
		t.ID, t.UserID, t.Type, t.Amount, t.Description, t.Status, meta,
	).Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.db.QueryRow(ctx, query, id))
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// DebitCountSince counts the user's debits created after the cutoff,
// regardless of status.
func (r *TransactionRepo) DebitCountSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND type = 'DEBIT' AND created_at >= $2`,
		userID, since,
	).Scan(&count)
	return count, err
}

// DebitStatsSince returns the average and maximum debit amount over the
// window. Both come back zero for a user with no debit history.
func (r *TransactionRepo) DebitStatsSince(ctx context.Context, userID int64, since time.Time) (avg, max float64, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(AVG(amount), 0), COALESCE(MAX(amount), 0)
         FROM transactions
         WHERE user_id = $1 AND type = 'DEBIT' AND created_at >= $2`,
		userID, since,
	).Scan(&avg, &max)
	return avg, max, err
}

// CountBankTransfers counts prior transfers from this user to the named
// counterparty bank.
func (r *TransactionRepo) CountBankTransfers(ctx context.Context, userID int64, bank string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions
         WHERE user_id = $1 AND type = 'DEBIT' AND metadata->>'bank_name' = $2`,
		userID, bank,
	).Scan(&count)
	return count, err
}

// DailyDebitUsage sums today's PENDING and COMPLETED debits and their
// count, the two numbers the daily ceilings are checked against.
func (r *TransactionRepo) DailyDebitUsage(ctx context.Context, userID int64, since time.Time) (sum float64, count int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*)
         FROM transactions
         WHERE user_id = $1 AND type = 'DEBIT'
           AND status IN ('PENDING', 'COMPLETED')
           AND created_at >= $2`,
		userID, since,
	).Scan(&sum, &count)
	return sum, count, err
}

// PendingExternalDebitSum is the total currently held by unresolved
// external transfers; available balance for a new external transfer is
// the stored balance minus this hold.
func (r *TransactionRepo) PendingExternalDebitSum(ctx context.Context, userID int64) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
         FROM transactions
         WHERE user_id = $1 AND type = 'DEBIT' AND status = 'PENDING'
           AND metadata->>'transfer_type' = $2`,
		userID, string(domain.TransferExternalBank),
	).Scan(&sum)
	return sum, err
}

// Approve moves a PENDING transfer to PROCESSING and decrements the
// owner's balance in one database transaction. The row lock plus the
// conditional balance update make double-approval and
// approval-after-balance-drop impossible.
func (r *TransactionRepo) Approve(ctx context.Context, id string, adminID int64) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	t, err := scanTransaction(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if t.Status != domain.StatusPending {
		return nil, domain.NewRejection(domain.CodeInvalidTransferStatus, "transfer has already been resolved")
	}

	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1`,
		t.Amount, t.UserID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.NewRejection(domain.CodeInsufficientUserBalance, "user balance no longer covers this transfer")
	}

	t.Status = domain.StatusProcessing
	t.Meta.Resolution = &domain.Resolution{
		Outcome:    "approved",
		AdminID:    adminID,
		ResolvedAt: time.Now().UTC(),
	}
	meta, err := json.Marshal(t.Meta)
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx,
		`UPDATE transactions SET status = $1, metadata = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`,
		t.Status, meta, t.ID,
	).Scan(&t.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reject moves a PENDING transfer to REJECTED with the admin's reason.
// The balance is untouched because pending external transfers never
// deducted it.
func (r *TransactionRepo) Reject(ctx context.Context, id string, adminID int64, reason string) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	t, err := scanTransaction(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if t.Status != domain.StatusPending {
		return nil, domain.NewRejection(domain.CodeInvalidTransferStatus, "transfer has already been resolved")
	}

	t.Status = domain.StatusRejected
	t.Meta.Resolution = &domain.Resolution{
		Outcome:    "rejected",
		AdminID:    adminID,
		ResolvedAt: time.Now().UTC(),
		Reason:     reason,
	}
	meta, err := json.Marshal(t.Meta)
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx,
		`UPDATE transactions SET status = $1, metadata = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`,
		t.Status, meta, t.ID,
	).Scan(&t.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}
