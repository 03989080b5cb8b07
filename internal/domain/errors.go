// domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Stable rejection codes. These strings are part of the API contract.
const (
	CodeKYCRequired             = "KYC_REQUIRED"
	CodeDailyLimitExceeded      = "DAILY_LIMIT_EXCEEDED"
	CodeDailyCountExceeded      = "DAILY_COUNT_EXCEEDED"
	CodeInsufficientFunds       = "INSUFFICIENT_FUNDS"
	CodeInvalidBank             = "INVALID_BANK"
	CodeHighRiskBlocked         = "HIGH_RISK_BLOCKED"
	CodeInvalidTransferStatus   = "INVALID_TRANSFER_STATUS"
	CodeInsufficientUserBalance = "INSUFFICIENT_USER_BALANCE"
)

// Rejection is a business-rule refusal: a stable code plus the numbers
// the caller needs for user-facing messaging. It is an expected outcome,
// not an internal failure.
type Rejection struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Current float64 `json:"current,omitempty"`
	Limit   float64 `json:"limit,omitempty"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

func NewRejection(code, msg string) *Rejection {
	return &Rejection{Code: code, Message: msg}
}

// AsRejection unwraps err into a Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserInactive        = errors.New("user account is not active")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrReasonRequired      = errors.New("rejection reason is required")
)
