package pgsql

import (
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MemberRepo: NewPgxMemberRepository(dbPool),
	}
}
