package risk

import (
	"testing"

	"transfer-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietInput returns an input that triggers no rule at all.
func quietInput() Input {
	return Input{
		Amount:       100,
		TransferType: domain.TransferChecking,
		Hour:         12,
		Aggregates: Aggregates{
			DebitCount24h:      1,
			PriorBankTransfers: 5,
			AvgDebit30d:        500,
			MaxDebit30d:        1000,
		},
	}
}

func TestScoreQuietProfile(t *testing.T) {
	a := Score(quietInput())
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, domain.RiskLow, a.Level)
	assert.Empty(t, a.Factors)
	assert.False(t, a.RequiresManualReview)
}

func TestScoreAdditiveRules(t *testing.T) {
	// Every triggered rule contributes; none suppresses another.
	in := Input{
		Amount:       30000,
		TransferType: domain.TransferExternalBank,
		BankName:     "First National",
		Hour:         12,
		Aggregates: Aggregates{
			DebitCount24h:      12,
			PriorBankTransfers: 0,
			AvgDebit30d:        1000,
			MaxDebit30d:        25000,
		},
	}
	a := Score(in)
	// 5 (amount) + 3 (frequency) + 2 (new bank) + 2 (5x average). The
	// historical-max rule stays quiet: 30000 <= 1.5*25000.
	assert.Equal(t, 12, a.Score)
	assert.Equal(t, domain.RiskCritical, a.Level)
	assert.ElementsMatch(t, []string{
		"very large transfer amount",
		"high transfer frequency in last 24 hours",
		"first transfer to this bank",
		"amount far above 30-day average",
	}, a.Factors)

	// Lowering the historical max flips exactly one extra rule on.
	in.MaxDebit30d = 10000
	a = Score(in)
	assert.Equal(t, 13, a.Score)
	assert.Contains(t, a.Factors, "amount above historical maximum")
	assert.Len(t, a.Factors, 5)
}

func TestScoreAmountBandsAreExclusive(t *testing.T) {
	cases := []struct {
		amount float64
		score  int
	}{
		{5000, 0},
		{5000.01, 1},
		{10000, 1},
		{10000.01, 3},
		{25000, 3},
		{25000.01, 5},
	}
	for _, tc := range cases {
		in := quietInput()
		in.Amount = tc.amount
		// Large amounts would also trip the history rules; park the
		// averages high enough to isolate the amount bands.
		in.AvgDebit30d = tc.amount
		in.MaxDebit30d = tc.amount
		a := Score(in)
		assert.Equalf(t, tc.score, a.Score, "amount %v", tc.amount)
	}
}

func TestScoreUnusualHours(t *testing.T) {
	for hour, want := range map[int]int{5: 1, 6: 0, 23: 0, 0: 1} {
		in := quietInput()
		in.Hour = hour
		assert.Equalf(t, want, Score(in).Score, "hour %d", hour)
	}
}

func TestLevelBoundaries(t *testing.T) {
	cases := []struct {
		score int
		level domain.RiskLevel
	}{
		{0, domain.RiskLow},
		{2, domain.RiskLow},
		{3, domain.RiskMedium},
		{4, domain.RiskMedium},
		{5, domain.RiskHigh},
		{7, domain.RiskHigh},
		{8, domain.RiskCritical},
		{12, domain.RiskCritical},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.level, levelFor(tc.score), "score %d", tc.score)
	}
}

// Score 4 is still MEDIUM but already requires manual review. The
// boundary is part of the contract.
func TestManualReviewAsymmetry(t *testing.T) {
	// 3 (frequency) + 1 (elevated amount) = 4, MEDIUM.
	in := quietInput()
	in.Amount = 6000
	in.AvgDebit30d = 6000
	in.MaxDebit30d = 6000
	in.DebitCount24h = 11
	a := Score(in)
	require.Equal(t, 4, a.Score)
	assert.Equal(t, domain.RiskMedium, a.Level)
	assert.True(t, a.RequiresManualReview)

	// Same score through a different rule mix still triggers review.
	in.DebitCount24h = 11
	in.Amount = 100
	in.Hour = 2
	a = Score(in)
	require.Equal(t, 4, a.Score) // 3 frequency + 1 unusual hour
	assert.True(t, a.RequiresManualReview)

	// One point lower: MEDIUM without review.
	in.Hour = 12
	a = Score(in)
	require.Equal(t, 3, a.Score)
	assert.Equal(t, domain.RiskMedium, a.Level)
	assert.False(t, a.RequiresManualReview)
}

func TestUnavailableFallback(t *testing.T) {
	a := Unavailable()
	assert.Equal(t, 3, a.Score)
	assert.Equal(t, domain.RiskMedium, a.Level)
	assert.Equal(t, []string{FactorEngineUnavailable}, a.Factors)
	assert.False(t, a.RequiresManualReview)
}
