// domain/risk.go
package domain

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskAssessment is computed once per transfer attempt and attached to
// the request in flight. It is never persisted as its own row; CRITICAL
// outcomes are recorded through the security event log instead.
type RiskAssessment struct {
	Score                int       `json:"risk_score"`
	Level                RiskLevel `json:"risk_level"`
	Factors              []string  `json:"risk_factors"`
	RequiresManualReview bool      `json:"requires_manual_review"`
}
