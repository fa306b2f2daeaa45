package services

import (
	"github.com/jonboulle/clockwork"

	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, clock clockwork.Clock) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Team service first since the member service depends on it
	container.Team = NewTeamService(repos.MemberRepo)

	container.Placement = NewPlacementService(repos.MemberRepo, cfg.Plan, clock)
	container.Activation = NewActivationService(repos.MemberRepo, cfg.Plan, clock)
	container.Ledger = NewLedgerService(repos.MemberRepo)
	container.Member = NewMemberService(repos.MemberRepo, container.Team, cfg.Plan)
	container.Token = NewTokenService(cfg)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.PlacementSvcFacade  = (*placementService)(nil)
	_ portssvc.ActivationSvcFacade = (*activationService)(nil)
	_ portssvc.TeamSvcFacade       = (*teamService)(nil)
	_ portssvc.LedgerSvcFacade     = (*ledgerService)(nil)
	_ portssvc.MemberSvcFacade     = (*memberService)(nil)
	_ portssvc.TokenSvcFacade      = (*tokenService)(nil)
)
