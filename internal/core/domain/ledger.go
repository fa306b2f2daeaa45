package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType distinguishes the two income streams.
type LedgerEntryType string

const (
	LevelIncome    LedgerEntryType = "LEVEL_INCOME"
	MatchingIncome LedgerEntryType = "MATCHING_INCOME"
)

// LedgerEntry is one immutable income event credited to a member.
// Entries are append-only; nothing in the system updates or deletes them.
type LedgerEntry struct {
	EntryID  string          `json:"entryID"` // Primary Key (UUID)
	MemberID string          `json:"memberID"`
	Type     LedgerEntryType `json:"type"`

	// FromMemberID is the activated downline member whose activation
	// triggered the payment. Set for level income only.
	FromMemberID string `json:"fromMemberID,omitempty"`

	// Level is the distance in the sponsor chain between the beneficiary
	// and the activated member. Set for level income only.
	Level int `json:"level,omitempty"`

	// PairsAdded is the number of newly matched leg pairs paid for by this
	// entry. Set for matching income only.
	PairsAdded int64 `json:"pairsAdded,omitempty"`

	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}
