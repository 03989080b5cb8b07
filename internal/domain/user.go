// domain/user.go
package domain

import "time"

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Balance   float64   `json:"balance"`
	IsActive  bool      `json:"is_active"`
	KYCStatus KYCStatus `json:"kyc_status"`
	RiskLevel RiskLevel `json:"risk_level"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
