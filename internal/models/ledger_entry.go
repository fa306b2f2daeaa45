package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents one income event as persisted. Rows are append-only.
type LedgerEntry struct {
	EntryID      string          `json:"entryID" db:"entry_id"`
	MemberID     string          `json:"memberID" db:"member_id"`
	EntryType    string          `json:"entryType" db:"entry_type"`
	FromMemberID string          `json:"fromMemberID,omitempty" db:"from_member_id"`
	Level        int             `json:"level,omitempty" db:"level"`
	PairsAdded   int64           `json:"pairsAdded,omitempty" db:"pairs_added"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}
