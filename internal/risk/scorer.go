// risk/scorer.go
package risk

import (
	"transfer-service/internal/domain"
)

const FactorEngineUnavailable = "risk engine unavailable"

// Score runs every rule against the input and maps the summed weights to
// a risk level. Evaluation is purely additive and order-independent.
func Score(in Input) domain.RiskAssessment {
	score := 0
	factors := []string{}
	for _, r := range rules {
		if r.Triggered(in) {
			score += r.Weight
			factors = append(factors, r.Label)
		}
	}

	level := levelFor(score)
	return domain.RiskAssessment{
		Score:   score,
		Level:   level,
		Factors: factors,
		// Score 4 is still MEDIUM but already requires review.
		RequiresManualReview: level == domain.RiskHigh || score >= 4,
	}
}

func levelFor(score int) domain.RiskLevel {
	switch {
	case score >= 8:
		return domain.RiskCritical
	case score >= 5:
		return domain.RiskHigh
	case score >= 3:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Unavailable is the fail-open fallback used when history aggregates
// cannot be fetched: a fixed MEDIUM assessment that lets the transfer
// proceed through the normal path instead of blocking on an engine
// outage.
func Unavailable() domain.RiskAssessment {
	return domain.RiskAssessment{
		Score:                3,
		Level:                domain.RiskMedium,
		Factors:              []string{FactorEngineUnavailable},
		RequiresManualReview: false,
	}
}
