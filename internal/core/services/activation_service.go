package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/dto"
	"github.com/nexalink/referral_network_app/internal/middleware"
)

// ErrAlreadyActive is returned when activating a member a second time.
var ErrAlreadyActive = errors.New("member is already active")

// activationService flips members to Active and runs the compensation
// walks up the sponsor chain.
type activationService struct {
	memberRepo portsrepo.MemberRepositoryWithTx
	plan       domain.CompensationPlan
	clock      clockwork.Clock
}

// NewActivationService creates a new ActivationService.
func NewActivationService(memberRepo portsrepo.MemberRepositoryWithTx, plan domain.CompensationPlan, clock clockwork.Clock) portssvc.ActivationSvcFacade {
	return &activationService{
		memberRepo: memberRepo,
		plan:       plan,
		clock:      clock,
	}
}

var _ portssvc.ActivationSvcFacade = (*activationService)(nil)

// ActivateMember performs the one-time Inactive -> Active transition and
// pays the upline. The status check and both payout walks run inside one
// transaction: a retried activation finds the member already Active and
// fails with ErrAlreadyActive before a single cent is credited, which is
// what makes the operation safe against caller retries.
func (s *activationService) ActivateMember(ctx context.Context, memberID string) (*dto.ActivationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	result := &dto.ActivationResult{
		MemberID:  memberID,
		TotalPaid: decimal.Zero,
	}

	err := s.memberRepo.WithTx(ctx, func(tx portsrepo.MemberRepositoryFacade) error {
		member, err := tx.FindMemberByID(ctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to find member %s: %w", memberID, err)
		}
		if member.IsActive() {
			return fmt.Errorf("%w: member %s", ErrAlreadyActive, memberID)
		}

		now := s.clock.Now().UTC()
		member.Status = domain.Active
		member.LastUpdatedAt = now
		member.LastUpdatedBy = memberID
		if err := tx.UpdateMember(ctx, *member); err != nil {
			return fmt.Errorf("failed to persist activation of member %s: %w", memberID, err)
		}

		var entries []domain.LedgerEntry

		if err := s.distributeLevelIncome(ctx, tx, member, result, &entries); err != nil {
			return err
		}
		if err := s.distributeMatchingIncome(ctx, tx, member, result, &entries); err != nil {
			return err
		}

		if len(entries) > 0 {
			if err := tx.AppendLedgerEntries(ctx, entries); err != nil {
				return fmt.Errorf("failed to append ledger entries: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Member activated",
		slog.String("member_id", memberID),
		slog.Int("level_payouts", len(result.LevelPayouts)),
		slog.Int("matching_payouts", len(result.MatchingPayouts)),
		slog.String("total_paid", result.TotalPaid.String()),
	)
	return result, nil
}

// distributeLevelIncome walks the sponsor chain up to MaxLevelDepth hops.
// Inactive ancestors neither block nor receive: the level counter still
// advances past them, so a deep inactive ancestor absorbs a level. Active
// ancestors are paid the scheduled amount iff they clear the direct-count
// gate for that level; a failed gate skips the payment but never the walk.
// A sponsor id missing from the store ends the walk; payments already made
// in this run stand.
func (s *activationService) distributeLevelIncome(
	ctx context.Context,
	tx portsrepo.MemberRepositoryFacade,
	activated *domain.Member,
	result *dto.ActivationResult,
	entries *[]domain.LedgerEntry,
) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.clock.Now().UTC()

	currentID := activated.SponsorID
	for level := 1; currentID != nil && level <= domain.MaxLevelDepth; level++ {
		ancestor, err := tx.FindMemberByID(ctx, *currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Sponsor chain broken during level income walk",
					slog.String("missing_member_id", *currentID),
					slog.Int("level", level),
				)
				return nil
			}
			return fmt.Errorf("failed to load ancestor %s at level %d: %w", *currentID, level, err)
		}

		if ancestor.IsActive() && len(ancestor.Directs) >= s.plan.DirectRequirementAt(level) {
			amount := s.plan.LevelIncomeAt(level)
			if amount.IsPositive() {
				ancestor.ActivationWallet = ancestor.ActivationWallet.Add(amount)
				ancestor.TotalIncome = ancestor.TotalIncome.Add(amount)
				ancestor.LastUpdatedAt = now
				ancestor.LastUpdatedBy = activated.MemberID
				if err := tx.UpdateMember(ctx, *ancestor); err != nil {
					return fmt.Errorf("failed to credit level income to %s: %w", ancestor.MemberID, err)
				}

				*entries = append(*entries, domain.LedgerEntry{
					EntryID:      uuid.NewString(),
					MemberID:     ancestor.MemberID,
					Type:         domain.LevelIncome,
					FromMemberID: activated.MemberID,
					Level:        level,
					Amount:       amount,
					CreatedAt:    now,
				})
				result.LevelPayouts = append(result.LevelPayouts, dto.LevelPayout{
					MemberID: ancestor.MemberID,
					Level:    level,
					Amount:   amount,
				})
				result.TotalPaid = result.TotalPaid.Add(amount)
			}
		}

		currentID = ancestor.SponsorID
	}
	return nil
}

// distributeMatchingIncome walks every ancestor to the root, unbounded.
// Inactive ancestors are skipped at no cost (there is no level counter
// here). For each active ancestor the newly matched pairs are the positive
// delta between min(powerLeg, otherLeg) and the pairs already paid for;
// because directs only grow, MatchedPairs can only increase and each pair
// is paid exactly once over the member's lifetime.
func (s *activationService) distributeMatchingIncome(
	ctx context.Context,
	tx portsrepo.MemberRepositoryFacade,
	activated *domain.Member,
	result *dto.ActivationResult,
	entries *[]domain.LedgerEntry,
) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.clock.Now().UTC()
	walker := newTeamWalker(tx)

	currentID := activated.SponsorID
	for currentID != nil {
		ancestor, err := tx.FindMemberByID(ctx, *currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Sponsor chain broken during matching walk",
					slog.String("missing_member_id", *currentID),
				)
				return nil
			}
			return fmt.Errorf("failed to load ancestor %s during matching walk: %w", *currentID, err)
		}

		if ancestor.IsActive() {
			legs, err := walker.legSummary(ctx, ancestor)
			if err != nil {
				return fmt.Errorf("failed to compute legs for %s: %w", ancestor.MemberID, err)
			}

			newMatched := legs.MatchablePairs()
			if newMatched > ancestor.MatchedPairs {
				pairsAdded := newMatched - ancestor.MatchedPairs
				amount := s.plan.MatchingPerPair.Mul(decimal.NewFromInt(pairsAdded))

				ancestor.MatchingWallet = ancestor.MatchingWallet.Add(amount)
				ancestor.TotalIncome = ancestor.TotalIncome.Add(amount)
				ancestor.MatchedPairs = newMatched
				ancestor.LastUpdatedAt = now
				ancestor.LastUpdatedBy = activated.MemberID
				if err := tx.UpdateMember(ctx, *ancestor); err != nil {
					return fmt.Errorf("failed to credit matching income to %s: %w", ancestor.MemberID, err)
				}

				*entries = append(*entries, domain.LedgerEntry{
					EntryID:      uuid.NewString(),
					MemberID:     ancestor.MemberID,
					Type:         domain.MatchingIncome,
					FromMemberID: activated.MemberID,
					PairsAdded:   pairsAdded,
					Amount:       amount,
					CreatedAt:    now,
				})
				result.MatchingPayouts = append(result.MatchingPayouts, dto.MatchingPayout{
					MemberID:   ancestor.MemberID,
					PairsAdded: pairsAdded,
					Amount:     amount,
				})
				result.TotalPaid = result.TotalPaid.Add(amount)
			}
		}

		currentID = ancestor.SponsorID
	}
	return nil
}
