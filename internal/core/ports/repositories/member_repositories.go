package repositories

import (
	"context"

	"github.com/nexalink/referral_network_app/internal/core/domain"
)

// MemberReader defines read operations for member data.
type MemberReader interface {
	// FindMemberByID retrieves a specific member by their unique identifier.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMemberByUsername retrieves a member by their unique username.
	FindMemberByUsername(ctx context.Context, username string) (*domain.Member, error)

	// FindMembersByIDs retrieves multiple members by their ids.
	FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error)

	// ListMembers retrieves a paginated list of members.
	ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error)
}

// MemberWriter defines write operations for member data.
type MemberWriter interface {
	// SaveMember persists a new member.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMember updates an existing member's record.
	UpdateMember(ctx context.Context, member domain.Member) error
}

// UniquenessIndex answers whether identity fields are already taken.
type UniquenessIndex interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
}

// MemberRepositoryFacade combines all member-related repository interfaces.
// This is a facade for clients that need access to all operations.
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
	UniquenessIndex
	LedgerRepository
}

// MemberRepositoryWithTx extends MemberRepositoryFacade with transaction capabilities.
type MemberRepositoryWithTx interface {
	MemberRepositoryFacade
	TransactionManager
}
