package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxLevelDepth is how far up the sponsor chain level income can reach.
// Matching income is not depth-limited.
const MaxLevelDepth = 30

// CompensationPlan holds every tunable of the payout rules. Loaded once at
// startup and treated as immutable afterwards.
type CompensationPlan struct {
	// MaxDirects caps the number of directly referred members per sponsor.
	MaxDirects int

	// ActivationCost is the fee a member pays to activate their account.
	ActivationCost decimal.Decimal

	// MatchingPerPair is paid for each newly balanced (power, other) pair.
	MatchingPerPair decimal.Decimal

	// LevelIncome[i] is the amount paid to an ancestor at level i+1 when a
	// downline member activates, gated by DirectRequirements[i].
	LevelIncome [MaxLevelDepth]decimal.Decimal

	// DirectRequirements[i] is the minimum direct count an ancestor needs
	// to receive LevelIncome[i].
	DirectRequirements [MaxLevelDepth]int
}

// DefaultCompensationPlan returns the standard plan: level income decreasing
// from $10 at level 1 to $0.25 at levels 21-30, direct requirements rising
// from 0 to 12 over the same range, $10 per matched pair, 12 direct slots.
func DefaultCompensationPlan() CompensationPlan {
	plan := CompensationPlan{
		MaxDirects:      12,
		ActivationCost:  decimal.NewFromInt(25),
		MatchingPerPair: decimal.NewFromInt(10),
	}
	for level := 1; level <= MaxLevelDepth; level++ {
		var amount decimal.Decimal
		var required int
		switch {
		case level == 1:
			amount, required = decimal.NewFromInt(10), 0
		case level == 2:
			amount, required = decimal.NewFromInt(5), 2
		case level == 3:
			amount, required = decimal.NewFromInt(4), 4
		case level <= 10:
			amount, required = decimal.NewFromInt(2), 6
		case level <= 20:
			amount, required = decimal.NewFromInt(1), 8
		default:
			amount, required = decimal.NewFromFloat(0.25), 12
		}
		plan.LevelIncome[level-1] = amount
		plan.DirectRequirements[level-1] = required
	}
	return plan
}

// LevelIncomeAt returns the payout for the given 1-based level, or zero for
// levels outside the schedule.
func (p CompensationPlan) LevelIncomeAt(level int) decimal.Decimal {
	if level < 1 || level > MaxLevelDepth {
		return decimal.Zero
	}
	return p.LevelIncome[level-1]
}

// DirectRequirementAt returns the direct-count gate for the given 1-based level.
func (p CompensationPlan) DirectRequirementAt(level int) int {
	if level < 1 || level > MaxLevelDepth {
		return 0
	}
	return p.DirectRequirements[level-1]
}

// Validate checks the plan for values that would corrupt payouts.
func (p CompensationPlan) Validate() error {
	if p.MaxDirects < 1 {
		return fmt.Errorf("max directs must be at least 1, got %d", p.MaxDirects)
	}
	if p.ActivationCost.IsNegative() {
		return fmt.Errorf("activation cost must not be negative, got %s", p.ActivationCost)
	}
	if p.MatchingPerPair.IsNegative() {
		return fmt.Errorf("matching per pair must not be negative, got %s", p.MatchingPerPair)
	}
	for i, amount := range p.LevelIncome {
		if amount.IsNegative() {
			return fmt.Errorf("level income for level %d must not be negative, got %s", i+1, amount)
		}
	}
	for i, required := range p.DirectRequirements {
		if required < 0 {
			return fmt.Errorf("direct requirement for level %d must not be negative, got %d", i+1, required)
		}
		if required > p.MaxDirects {
			return fmt.Errorf("direct requirement for level %d (%d) exceeds max directs (%d)", i+1, required, p.MaxDirects)
		}
	}
	return nil
}
