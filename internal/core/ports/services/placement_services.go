package services

import (
	"context"

	"github.com/nexalink/referral_network_app/internal/core/domain"
	"github.com/nexalink/referral_network_app/internal/dto"
)

// PlacementSvcFacade attaches new members under a sponsor.
type PlacementSvcFacade interface {
	// PlaceMember creates a new inactive member under the requested sponsor,
	// enforcing sponsor existence, the direct-capacity cap and
	// username/email uniqueness. All checks happen before any mutation.
	PlaceMember(ctx context.Context, req dto.RegisterMemberRequest) (*domain.Member, error)
}
