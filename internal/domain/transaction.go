// domain/transaction.go
package domain

import (
	"strings"
	"time"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT"
	TransactionDebit  TransactionType = "DEBIT"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "PENDING"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusCompleted  TransactionStatus = "COMPLETED"
	StatusRejected   TransactionStatus = "REJECTED"
	StatusFailed     TransactionStatus = "FAILED"
)

// Terminal reports whether no further status transition is allowed.
// PENDING is the only non-terminal state: it moves to PROCESSING on
// approval or REJECTED on rejection.
func (s TransactionStatus) Terminal() bool {
	return s != StatusPending
}

type TransferType string

const (
	TransferChecking     TransferType = "checking"
	TransferSavings      TransferType = "savings"
	TransferExternalBank TransferType = "external_bank"
)

func (t TransferType) Valid() bool {
	switch t {
	case TransferChecking, TransferSavings, TransferExternalBank:
		return true
	}
	return false
}

// External reports whether the transfer leaves the system and therefore
// needs hold-and-approve semantics instead of immediate settlement.
func (t TransferType) External() bool {
	return t == TransferExternalBank
}

// TransferRequest is the per-call input to transfer creation. It is never
// persisted as its own entity; once validated it becomes a Transaction.
type TransferRequest struct {
	Amount        float64      `json:"amount"`
	RecipientInfo string       `json:"recipient_info"`
	TransferType  TransferType `json:"transfer_type"`
	BankName      string       `json:"bank_name,omitempty"`
}

// Resolution carries the admin-review outcome. It is nil while the
// transfer is still pending, so resolution-only fields cannot leak into
// the pending state.
type Resolution struct {
	Outcome    string    `json:"outcome"` // approved | rejected
	AdminID    int64     `json:"admin_id"`
	ResolvedAt time.Time `json:"resolved_at"`
	Reason     string    `json:"reason,omitempty"`
}

// TransferMeta is the structured form of the transaction metadata blob.
// The recipient is stored masked; the raw account number never reaches
// this struct.
type TransferMeta struct {
	TransferType     TransferType `json:"transfer_type"`
	Recipient        string       `json:"recipient"`
	BankName         string       `json:"bank_name,omitempty"`
	RiskLevel        RiskLevel    `json:"risk_level"`
	RequiresApproval bool         `json:"requires_approval"`
	SubmittedAt      time.Time    `json:"submitted_at"`
	Resolution       *Resolution  `json:"resolution,omitempty"`
}

type Transaction struct {
	ID          string            `json:"id"`
	UserID      int64             `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status"`
	Meta        TransferMeta      `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// MaskRecipient hides everything but the last four characters of an
// account identifier. Short identifiers are masked entirely.
func MaskRecipient(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
