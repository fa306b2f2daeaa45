package services

import (
	"context"

	"github.com/nexalink/referral_network_app/internal/core/domain"
	"github.com/nexalink/referral_network_app/internal/dto"
)

// MemberReaderSvc defines read operations for member data.
type MemberReaderSvc interface {
	// GetMemberByID retrieves a specific member by their id.
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// GetDashboard assembles the member-panel figures: wallets, matched
	// pairs, direct count, team size and leg summary.
	GetDashboard(ctx context.Context, memberID string) (*dto.DashboardResponse, error)

	// ListMembers retrieves a paginated list of all members. Admin only.
	ListMembers(ctx context.Context, requestingMemberID string, limit int, offset int) ([]domain.Member, error)
}

// MemberAuthenticatorSvc verifies login credentials.
type MemberAuthenticatorSvc interface {
	// Authenticate returns the member matching the credentials, or
	// apperrors.ErrForbidden when they do not match.
	Authenticate(ctx context.Context, username string, password string) (*domain.Member, error)
}

// MemberSvcFacade combines all member-related service interfaces.
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberAuthenticatorSvc
}
