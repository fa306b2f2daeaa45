package mapping

import (
	"github.com/nexalink/referral_network_app/internal/core/domain"
	"github.com/nexalink/referral_network_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		MemberID:     d.MemberID,
		EntryType:    string(d.Type),
		FromMemberID: d.FromMemberID,
		Level:        d.Level,
		PairsAdded:   d.PairsAdded,
		Amount:       d.Amount,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		MemberID:     m.MemberID,
		Type:         domain.LedgerEntryType(m.EntryType),
		FromMemberID: m.FromMemberID,
		Level:        m.Level,
		PairsAdded:   m.PairsAdded,
		Amount:       m.Amount,
		CreatedAt:    m.CreatedAt,
	}
}
