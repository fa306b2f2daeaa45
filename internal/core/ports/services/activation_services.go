package services

import (
	"context"

	"github.com/nexalink/referral_network_app/internal/dto"
)

// ActivationSvcFacade performs the one-time activation of a member and the
// resulting compensation run up the sponsor chain.
type ActivationSvcFacade interface {
	// ActivateMember flips the member from Inactive to Active, then pays
	// level income and matching income to the upline. A second call for the
	// same member fails with ErrAlreadyActive and pays nothing.
	ActivateMember(ctx context.Context, memberID string) (*dto.ActivationResult, error)
}
