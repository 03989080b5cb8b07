// risk/rules.go
package risk

import (
	"transfer-service/internal/domain"
)

// Aggregates are the recent-history numbers the scorer consumes. They
// are fetched by the caller; the scorer itself does no I/O.
type Aggregates struct {
	DebitCount24h      int
	PriorBankTransfers int
	AvgDebit30d        float64
	MaxDebit30d        float64
}

// Input is one transfer attempt plus its history context.
type Input struct {
	Amount       float64
	TransferType domain.TransferType
	BankName     string
	Hour         int // local wall-clock hour, 0-23
	Aggregates
}

// Rule is one independent scoring signal: if the predicate fires, its
// weight is added and its label recorded. Rules never suppress each
// other; contributions sum.
type Rule struct {
	Label     string
	Weight    int
	Triggered func(in Input) bool
}

// rules is the ordered signal list. The three amount bands are written
// as disjoint predicates so exactly one of them can fire.
var rules = []Rule{
	{
		Label:  "very large transfer amount",
		Weight: 5,
		Triggered: func(in Input) bool {
			return in.Amount > 25000
		},
	},
	{
		Label:  "large transfer amount",
		Weight: 3,
		Triggered: func(in Input) bool {
			return in.Amount > 10000 && in.Amount <= 25000
		},
	},
	{
		Label:  "elevated transfer amount",
		Weight: 1,
		Triggered: func(in Input) bool {
			return in.Amount > 5000 && in.Amount <= 10000
		},
	},
	{
		Label:  "high transfer frequency in last 24 hours",
		Weight: 3,
		Triggered: func(in Input) bool {
			return in.DebitCount24h > 10
		},
	},
	{
		Label:  "first transfer to this bank",
		Weight: 2,
		Triggered: func(in Input) bool {
			return in.TransferType == domain.TransferExternalBank && in.PriorBankTransfers == 0
		},
	},
	{
		Label:  "amount far above 30-day average",
		Weight: 2,
		Triggered: func(in Input) bool {
			return in.Amount > 5*in.AvgDebit30d
		},
	},
	{
		Label:  "amount above historical maximum",
		Weight: 1,
		Triggered: func(in Input) bool {
			return in.Amount > 1.5*in.MaxDebit30d
		},
	},
	{
		Label:  "transfer during unusual hours",
		Weight: 1,
		Triggered: func(in Input) bool {
			return in.Hour < 6 || in.Hour > 23
		},
	},
}
