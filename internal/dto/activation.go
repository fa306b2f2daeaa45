package dto

import (
	"github.com/shopspring/decimal"
)

// LevelPayout records one level-income payment made during an activation run.
type LevelPayout struct {
	MemberID string          `json:"memberID"`
	Level    int             `json:"level"`
	Amount   decimal.Decimal `json:"amount"`
}

// MatchingPayout records one matching-income payment made during an activation run.
type MatchingPayout struct {
	MemberID   string          `json:"memberID"`
	PairsAdded int64           `json:"pairsAdded"`
	Amount     decimal.Decimal `json:"amount"`
}

// ActivationResult summarises what a single activation paid out.
type ActivationResult struct {
	MemberID        string           `json:"memberID"`
	LevelPayouts    []LevelPayout    `json:"levelPayouts"`
	MatchingPayouts []MatchingPayout `json:"matchingPayouts"`
	TotalPaid       decimal.Decimal  `json:"totalPaid"`
}
