package dto

import (
	"time"

	"github.com/nexalink/referral_network_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse defines the data returned for one income event.
type LedgerEntryResponse struct {
	EntryID      string                 `json:"entryID"`
	Type         domain.LedgerEntryType `json:"type"`
	FromMemberID string                 `json:"fromMemberID,omitempty"`
	Level        int                    `json:"level,omitempty"`
	PairsAdded   int64                  `json:"pairsAdded,omitempty"`
	Amount       decimal.Decimal        `json:"amount"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// ToLedgerEntryResponses converts domain ledger entries, preserving order.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			EntryID:      e.EntryID,
			Type:         e.Type,
			FromMemberID: e.FromMemberID,
			Level:        e.Level,
			PairsAdded:   e.PairsAdded,
			Amount:       e.Amount,
			CreatedAt:    e.CreatedAt,
		}
	}
	return out
}

// IncomeHistoryResponse wraps a member's ledger listing.
type IncomeHistoryResponse struct {
	MemberID string                `json:"memberID"`
	Entries  []LedgerEntryResponse `json:"entries"`
}
