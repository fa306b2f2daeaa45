package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/dto"
	"github.com/nexalink/referral_network_app/internal/middleware"
	"github.com/nexalink/referral_network_app/internal/utils"
)

// memberService provides member panel operations: login, profile, dashboard
// and the admin listing.
type memberService struct {
	memberRepo portsrepo.MemberRepositoryFacade
	teamSvc    portssvc.TeamSvcFacade
	plan       domain.CompensationPlan
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade, teamSvc portssvc.TeamSvcFacade, plan domain.CompensationPlan) portssvc.MemberSvcFacade {
	return &memberService{
		memberRepo: memberRepo,
		teamSvc:    teamSvc,
		plan:       plan,
	}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

// Authenticate verifies the credentials. A missing username and a wrong
// password both come back as ErrForbidden so callers cannot probe which
// usernames exist.
func (s *memberService) Authenticate(ctx context.Context, username string, password string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	member, err := s.memberRepo.FindMemberByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login attempt for unknown username")
			return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to find member by username: %w", err)
	}

	if !utils.CheckPasswordHash(password, member.PasswordHash) {
		logger.Warn("Login attempt with wrong password", slog.String("member_id", member.MemberID))
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
	}

	return member, nil
}

// GetMemberByID retrieves a specific member by their id.
func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}
	return member, nil
}

// GetDashboard assembles the member-panel figures from the store and the
// team service.
func (s *memberService) GetDashboard(ctx context.Context, memberID string) (*dto.DashboardResponse, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}

	teamSize, err := s.teamSvc.CountTeam(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to count team for member %s: %w", memberID, err)
	}

	legs, err := s.teamSvc.LegSummary(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute legs for member %s: %w", memberID, err)
	}

	return &dto.DashboardResponse{
		Member:          dto.ToMemberResponse(member),
		DirectCount:     len(member.Directs),
		TeamSize:        teamSize,
		Legs:            dto.ToLegSummaryResponse(legs),
		ActivationCost:  s.plan.ActivationCost,
		MatchingPerPair: s.plan.MatchingPerPair,
	}, nil
}

// ListMembers returns a page of all members. Admin only.
func (s *memberService) ListMembers(ctx context.Context, requestingMemberID string, limit int, offset int) ([]domain.Member, error) {
	requester, err := s.memberRepo.FindMemberByID(ctx, requestingMemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to find requesting member %s: %w", requestingMemberID, err)
	}
	if !requester.IsAdmin {
		return nil, fmt.Errorf("member %s is not an admin: %w", requestingMemberID, apperrors.ErrForbidden)
	}

	if limit <= 0 {
		limit = 50
	}
	members, err := s.memberRepo.ListMembers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
