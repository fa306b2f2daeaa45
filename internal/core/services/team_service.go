package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
)

// ErrCycleDetected is returned when a downline walk revisits a member.
// Correct placement never creates a cycle (a sponsor id always points to a
// member that existed earlier), so this is a defensive guard against
// corrupted store contents, not an expected condition.
var ErrCycleDetected = errors.New("cycle detected in referral tree")

// teamWalker performs downline traversals against one repository view.
// The memo keeps subtree sizes for the lifetime of the walker, so a single
// activation that needs the legs of every ancestor does not recount shared
// subtrees. Walkers must not outlive the repository view they were built on.
//
// Subtree sizes are still recomputed from scratch per request; maintaining
// incremental counters updated on placement is the known optimization for
// large networks.
type teamWalker struct {
	repo portsrepo.MemberReader
	memo map[string]int
}

func newTeamWalker(repo portsrepo.MemberReader) *teamWalker {
	return &teamWalker{
		repo: repo,
		memo: make(map[string]int),
	}
}

// countTeam returns 1 plus the sizes of all child subtrees. path tracks the
// ids on the current descent for cycle detection.
func (w *teamWalker) countTeam(ctx context.Context, memberID string, path map[string]bool) (int, error) {
	if size, ok := w.memo[memberID]; ok {
		return size, nil
	}
	if path[memberID] {
		return 0, fmt.Errorf("%w: member %s revisited", ErrCycleDetected, memberID)
	}
	path[memberID] = true
	defer delete(path, memberID)

	member, err := w.repo.FindMemberByID(ctx, memberID)
	if err != nil {
		return 0, fmt.Errorf("failed to load member %s during team count: %w", memberID, err)
	}

	size := 1
	for _, childID := range member.Directs {
		childSize, err := w.countTeam(ctx, childID, path)
		if err != nil {
			return 0, err
		}
		size += childSize
	}

	w.memo[memberID] = size
	return size, nil
}

// legSummary derives the positional power-leg / other-leg split.
func (w *teamWalker) legSummary(ctx context.Context, member *domain.Member) (*domain.LegSummary, error) {
	summary := &domain.LegSummary{}
	if len(member.Directs) == 0 {
		return summary, nil
	}

	powerChildID := member.Directs[0]
	summary.PowerLegChildID = &powerChildID

	powerSize, err := w.countTeam(ctx, powerChildID, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	summary.PowerLegSize = powerSize

	for _, childID := range member.Directs[1:] {
		childSize, err := w.countTeam(ctx, childID, make(map[string]bool))
		if err != nil {
			return nil, err
		}
		summary.OtherLegSize += childSize
	}
	return summary, nil
}

// subtree builds the recursive downline view.
func (w *teamWalker) subtree(ctx context.Context, memberID string, path map[string]bool) (*domain.SubtreeNode, error) {
	if path[memberID] {
		return nil, fmt.Errorf("%w: member %s revisited", ErrCycleDetected, memberID)
	}
	path[memberID] = true
	defer delete(path, memberID)

	member, err := w.repo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member %s during subtree walk: %w", memberID, err)
	}

	node := &domain.SubtreeNode{
		MemberID: member.MemberID,
		Directs:  make([]domain.SubtreeNode, 0, len(member.Directs)),
	}
	for _, childID := range member.Directs {
		child, err := w.subtree(ctx, childID, path)
		if err != nil {
			return nil, err
		}
		node.Directs = append(node.Directs, *child)
	}
	return node, nil
}

// teamService exposes downline traversals over the shared store.
type teamService struct {
	memberRepo portsrepo.MemberReader
}

// NewTeamService creates a new TeamService.
func NewTeamService(memberRepo portsrepo.MemberReader) portssvc.TeamSvcFacade {
	return &teamService{memberRepo: memberRepo}
}

var _ portssvc.TeamSvcFacade = (*teamService)(nil)

func (s *teamService) CountTeam(ctx context.Context, memberID string) (int, error) {
	walker := newTeamWalker(s.memberRepo)
	size, err := walker.countTeam(ctx, memberID, make(map[string]bool))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, fmt.Errorf("member %s: %w", memberID, apperrors.ErrNotFound)
		}
		return 0, err
	}
	return size, nil
}

func (s *teamService) LegSummary(ctx context.Context, memberID string) (*domain.LegSummary, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}
	walker := newTeamWalker(s.memberRepo)
	return walker.legSummary(ctx, member)
}

func (s *teamService) GetSubtree(ctx context.Context, memberID string) (*domain.SubtreeNode, error) {
	walker := newTeamWalker(s.memberRepo)
	return walker.subtree(ctx, memberID, make(map[string]bool))
}
