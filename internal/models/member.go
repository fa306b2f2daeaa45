package models

import (
	"github.com/shopspring/decimal"
)

// Member represents a referral network member as persisted.
// Directs is stored as an ordered array; position 0 is the power-leg child.
type Member struct {
	MemberID         string          `json:"memberID" db:"member_id"`
	Username         string          `json:"username" db:"username"`
	Email            string          `json:"email" db:"email"`
	PasswordHash     string          `json:"passwordHash" db:"password_hash"`
	SponsorID        *string         `json:"sponsorID" db:"sponsor_id"`
	Directs          []string        `json:"directs" db:"directs"`
	Status           string          `json:"status" db:"status"`
	ActivationWallet decimal.Decimal `json:"activationWallet" db:"activation_wallet"`
	MatchingWallet   decimal.Decimal `json:"matchingWallet" db:"matching_wallet"`
	TotalIncome      decimal.Decimal `json:"totalIncome" db:"total_income"`
	MatchedPairs     int64           `json:"matchedPairs" db:"matched_pairs"`
	IsAdmin          bool            `json:"isAdmin" db:"is_admin"`
	AuditFields
}
