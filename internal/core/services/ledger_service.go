package services

import (
	"context"
	"fmt"

	"github.com/nexalink/referral_network_app/internal/core/domain"
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
)

// ledgerService exposes the append-only income ledger read-only. Writes
// happen exclusively inside the activation service's transaction.
type ledgerService struct {
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(memberRepo portsrepo.MemberRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{memberRepo: memberRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetIncomeHistory returns a member's ledger entries, oldest first.
func (s *ledgerService) GetIncomeHistory(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	if _, err := s.memberRepo.FindMemberByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}

	entries, err := s.memberRepo.ListLedgerEntriesByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for member %s: %w", memberID, err)
	}
	return entries, nil
}
