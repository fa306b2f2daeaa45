package repositories

import (
	"context"

	"github.com/nexalink/referral_network_app/internal/core/domain"
)

// LedgerRepository defines persistence operations for income ledger entries.
// The ledger is append-only: there is no update or delete.
type LedgerRepository interface {
	// AppendLedgerEntries persists new entries. Entries are immutable once written.
	AppendLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error

	// ListLedgerEntriesByMember retrieves a member's entries, oldest first.
	ListLedgerEntriesByMember(ctx context.Context, memberID string) ([]domain.LedgerEntry, error)
}
