package services

import (
	"context"

	"github.com/nexalink/referral_network_app/internal/core/domain"
)

// LedgerSvcFacade exposes the income ledger read-only.
type LedgerSvcFacade interface {
	// GetIncomeHistory returns a member's ledger entries, oldest first.
	GetIncomeHistory(ctx context.Context, memberID string) ([]domain.LedgerEntry, error)
}
