package risk

import (
	"testing"

	"transfer-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		name  string
		kyc   domain.KYCStatus
		level domain.RiskLevel
		want  Tier
	}{
		{"approved low", domain.KYCApproved, domain.RiskLow, Tier{25000, 10}},
		{"approved medium", domain.KYCApproved, domain.RiskMedium, Tier{15000, 8}},
		{"approved high", domain.KYCApproved, domain.RiskHigh, Tier{5000, 5}},
		{"approved critical", domain.KYCApproved, domain.RiskCritical, Tier{10000, 5}},
		{"pending kyc ignores risk", domain.KYCPending, domain.RiskLow, Tier{2500, 3}},
		{"rejected kyc ignores risk", domain.KYCRejected, domain.RiskHigh, Tier{2500, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TierFor(tc.kyc, tc.level))
		})
	}
}

func TestKYCGate(t *testing.T) {
	rej := KYCGate(domain.KYCPending, 10001)
	require.NotNil(t, rej)
	assert.Equal(t, domain.CodeKYCRequired, rej.Code)

	assert.Nil(t, KYCGate(domain.KYCPending, 10000))
	assert.Nil(t, KYCGate(domain.KYCApproved, 10001))
	assert.Nil(t, KYCGate(domain.KYCApproved, 1000000))
}

func TestCheckLimitsAmountCeiling(t *testing.T) {
	// 20000 used + 5000 new == 25000 ceiling: still allowed.
	assert.Nil(t, CheckLimits(domain.KYCApproved, domain.RiskLow, 5000, Usage{AmountToday: 20000, CountToday: 2}))

	// One cent over the ceiling is refused with the usage numbers.
	rej := CheckLimits(domain.KYCApproved, domain.RiskLow, 5000.01, Usage{AmountToday: 20000, CountToday: 2})
	require.NotNil(t, rej)
	assert.Equal(t, domain.CodeDailyLimitExceeded, rej.Code)
	assert.Equal(t, 20000.0, rej.Current)
	assert.Equal(t, 25000.0, rej.Limit)
}

func TestCheckLimitsCountCeiling(t *testing.T) {
	// Count must stay strictly below the ceiling.
	assert.Nil(t, CheckLimits(domain.KYCApproved, domain.RiskLow, 100, Usage{CountToday: 9}))

	rej := CheckLimits(domain.KYCApproved, domain.RiskLow, 100, Usage{CountToday: 10})
	require.NotNil(t, rej)
	assert.Equal(t, domain.CodeDailyCountExceeded, rej.Code)
	assert.Equal(t, 10.0, rej.Current)
	assert.Equal(t, 10.0, rej.Limit)
}

func TestCheckLimitsUnverifiedFloorTier(t *testing.T) {
	rej := CheckLimits(domain.KYCPending, domain.RiskLow, 2000, Usage{AmountToday: 1000, CountToday: 1})
	require.NotNil(t, rej)
	assert.Equal(t, domain.CodeDailyLimitExceeded, rej.Code)
	assert.Equal(t, 2500.0, rej.Limit)

	rej = CheckLimits(domain.KYCPending, domain.RiskLow, 100, Usage{CountToday: 3})
	require.NotNil(t, rej)
	assert.Equal(t, domain.CodeDailyCountExceeded, rej.Code)
}
