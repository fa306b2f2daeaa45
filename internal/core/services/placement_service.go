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
	"github.com/nexalink/referral_network_app/internal/utils"
)

var (
	ErrSponsorNotFound   = errors.New("sponsor not found")
	ErrSponsorCapacity   = errors.New("sponsor already has the maximum number of direct referrals")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already taken")
)

// placementService attaches new members to the referral tree.
type placementService struct {
	memberRepo portsrepo.MemberRepositoryWithTx
	plan       domain.CompensationPlan
	clock      clockwork.Clock
}

// NewPlacementService creates a new PlacementService.
func NewPlacementService(memberRepo portsrepo.MemberRepositoryWithTx, plan domain.CompensationPlan, clock clockwork.Clock) portssvc.PlacementSvcFacade {
	return &placementService{
		memberRepo: memberRepo,
		plan:       plan,
		clock:      clock,
	}
}

var _ portssvc.PlacementSvcFacade = (*placementService)(nil)

// PlaceMember creates a new inactive member and appends it to the sponsor's
// directs. The whole check-then-append runs inside one transaction so two
// signups racing for the sponsor's last slot cannot both win, and every
// check happens before any mutation.
func (s *placementService) PlaceMember(ctx context.Context, req dto.RegisterMemberRequest) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var placed *domain.Member
	err := s.memberRepo.WithTx(ctx, func(tx portsrepo.MemberRepositoryFacade) error {
		var sponsor *domain.Member
		if req.SponsorID != nil && *req.SponsorID != "" {
			found, err := tx.FindMemberByID(ctx, *req.SponsorID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return fmt.Errorf("%w: %s", ErrSponsorNotFound, *req.SponsorID)
				}
				return fmt.Errorf("failed to find sponsor %s: %w", *req.SponsorID, err)
			}
			if len(found.Directs) >= s.plan.MaxDirects {
				return fmt.Errorf("%w: sponsor %s has %d directs", ErrSponsorCapacity, found.MemberID, len(found.Directs))
			}
			sponsor = found
		}

		usernameTaken, err := tx.IsUsernameTaken(ctx, req.Username)
		if err != nil {
			return fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if usernameTaken {
			return fmt.Errorf("%w: %s", ErrDuplicateUsername, req.Username)
		}

		emailTaken, err := tx.IsEmailTaken(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if emailTaken {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, req.Email)
		}

		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		now := s.clock.Now().UTC()
		memberID := uuid.NewString()

		member := domain.Member{
			MemberID:         memberID,
			Username:         req.Username,
			Email:            req.Email,
			PasswordHash:     hash,
			Directs:          []string{},
			Status:           domain.Inactive,
			ActivationWallet: decimal.Zero,
			MatchingWallet:   decimal.Zero,
			TotalIncome:      decimal.Zero,
			MatchedPairs:     0,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     memberID,
				LastUpdatedAt: now,
				LastUpdatedBy: memberID,
			},
		}
		if sponsor != nil {
			sponsorID := sponsor.MemberID
			member.SponsorID = &sponsorID
		}

		if err := tx.SaveMember(ctx, member); err != nil {
			return fmt.Errorf("failed to save member: %w", err)
		}

		if sponsor != nil {
			sponsor.Directs = append(sponsor.Directs, memberID)
			sponsor.LastUpdatedAt = now
			sponsor.LastUpdatedBy = memberID
			if err := tx.UpdateMember(ctx, *sponsor); err != nil {
				return fmt.Errorf("failed to update sponsor %s: %w", sponsor.MemberID, err)
			}
		}

		placed = &member
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Member placed successfully",
		slog.String("member_id", placed.MemberID),
		slog.String("username", placed.Username),
	)
	return placed, nil
}
