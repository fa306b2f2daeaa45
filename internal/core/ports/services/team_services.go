package services

import (
	"context"

	"github.com/nexalink/referral_network_app/internal/core/domain"
)

// TeamSvcFacade exposes the downline structure of the referral tree.
type TeamSvcFacade interface {
	// CountTeam returns the size of the subtree rooted at the member,
	// the member included.
	CountTeam(ctx context.Context, memberID string) (int, error)

	// LegSummary returns the power-leg / other-leg split for the member.
	LegSummary(ctx context.Context, memberID string) (*domain.LegSummary, error)

	// GetSubtree returns the recursive downline view for visualisation.
	GetSubtree(ctx context.Context, memberID string) (*domain.SubtreeNode, error)
}
