// risk/limits.go
package risk

import (
	"fmt"

	"transfer-service/internal/domain"
)

// Tier is a daily ceiling pair derived from KYC status and risk level.
type Tier struct {
	MaxDailyAmount float64
	MaxDailyCount  int
}

// kycRequiredThreshold is the single-transfer amount above which an
// unverified user is refused outright, before any limit math.
const kycRequiredThreshold = 10000

// TierFor resolves the daily ceilings for a user. Unverified users get
// the floor tier regardless of risk level.
func TierFor(kyc domain.KYCStatus, level domain.RiskLevel) Tier {
	if kyc != domain.KYCApproved {
		return Tier{MaxDailyAmount: 2500, MaxDailyCount: 3}
	}
	switch level {
	case domain.RiskLow:
		return Tier{MaxDailyAmount: 25000, MaxDailyCount: 10}
	case domain.RiskMedium:
		return Tier{MaxDailyAmount: 15000, MaxDailyCount: 8}
	case domain.RiskHigh:
		return Tier{MaxDailyAmount: 5000, MaxDailyCount: 5}
	default:
		return Tier{MaxDailyAmount: 10000, MaxDailyCount: 5}
	}
}

// Usage is today's debit consumption: the sum of PENDING and COMPLETED
// debit amounts and their count.
type Usage struct {
	AmountToday float64
	CountToday  int
}

// KYCGate refuses large transfers from unverified users outright. It
// runs before risk scoring and before any limit math, so the rejection
// code is KYC_REQUIRED no matter what the score would have been.
func KYCGate(kyc domain.KYCStatus, amount float64) *domain.Rejection {
	if kyc != domain.KYCApproved && amount > kycRequiredThreshold {
		return &domain.Rejection{
			Code:    domain.CodeKYCRequired,
			Message: fmt.Sprintf("identity verification is required for transfers above %.2f", float64(kycRequiredThreshold)),
			Limit:   kycRequiredThreshold,
		}
	}
	return nil
}

// CheckLimits enforces the daily ceilings for one new transfer. A nil
// return means the transfer fits; otherwise the rejection carries the
// stable code plus the usage numbers for user-facing messaging.
func CheckLimits(kyc domain.KYCStatus, level domain.RiskLevel, amount float64, usage Usage) *domain.Rejection {
	tier := TierFor(kyc, level)

	if usage.AmountToday+amount > tier.MaxDailyAmount {
		return &domain.Rejection{
			Code:    domain.CodeDailyLimitExceeded,
			Message: fmt.Sprintf("daily transfer limit exceeded: %.2f of %.2f already used", usage.AmountToday, tier.MaxDailyAmount),
			Current: usage.AmountToday,
			Limit:   tier.MaxDailyAmount,
		}
	}

	if usage.CountToday >= tier.MaxDailyCount {
		return &domain.Rejection{
			Code:    domain.CodeDailyCountExceeded,
			Message: fmt.Sprintf("daily transfer count exceeded: %d of %d already used", usage.CountToday, tier.MaxDailyCount),
			Current: float64(usage.CountToday),
			Limit:   float64(tier.MaxDailyCount),
		}
	}

	return nil
}
