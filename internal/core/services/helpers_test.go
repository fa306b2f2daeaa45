package services_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nexalink/referral_network_app/internal/core/domain"
	portsrepo "github.com/nexalink/referral_network_app/internal/core/ports/repositories"
)

// testFixedTime is the reference instant used by the fake clocks.
var testFixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fixture seeds members straight into the store, bypassing the placement
// service, so tree-shape tests can build arbitrary networks cheaply (no
// password hashing) and control statuses directly.
type fixture struct {
	require *require.Assertions
	repo    portsrepo.MemberRepositoryFacade
}

func newFixture(req *require.Assertions, repo portsrepo.MemberRepositoryFacade) *fixture {
	return &fixture{require: req, repo: repo}
}

// seed creates a member with the given username, sponsor and status, links
// it into the sponsor's directs, and returns its id.
func (f *fixture) seed(username string, sponsorID *string, status domain.ActivationStatus) string {
	ctx := context.Background()
	memberID := uuid.NewString()

	member := domain.Member{
		MemberID:         memberID,
		Username:         username,
		Email:            username + "@example.com",
		PasswordHash:     "not-a-real-hash",
		SponsorID:        sponsorID,
		Directs:          []string{},
		Status:           status,
		ActivationWallet: decimal.Zero,
		MatchingWallet:   decimal.Zero,
		TotalIncome:      decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     testFixedTime,
			CreatedBy:     memberID,
			LastUpdatedAt: testFixedTime,
			LastUpdatedBy: memberID,
		},
	}
	f.require.NoError(f.repo.SaveMember(ctx, member))

	if sponsorID != nil {
		sponsor, err := f.repo.FindMemberByID(ctx, *sponsorID)
		f.require.NoError(err)
		sponsor.Directs = append(sponsor.Directs, memberID)
		f.require.NoError(f.repo.UpdateMember(ctx, *sponsor))
	}
	return memberID
}

// seedChain creates a sponsor chain of the given length, all with the given
// status, and returns the ids top-down (index 0 is the root).
func (f *fixture) seedChain(prefix string, length int, status domain.ActivationStatus) []string {
	ids := make([]string, 0, length)
	var sponsor *string
	for i := 0; i < length; i++ {
		id := f.seed(chainName(prefix, i), sponsor, status)
		ids = append(ids, id)
		sponsor = &ids[len(ids)-1]
	}
	return ids
}

func chainName(prefix string, i int) string {
	return prefix + string(rune('a'+i/26)) + string(rune('a'+i%26))
}

// member reloads a member from the store.
func (f *fixture) member(memberID string) *domain.Member {
	m, err := f.repo.FindMemberByID(context.Background(), memberID)
	f.require.NoError(err)
	return m
}

// setDirects overwrites a member's directs, used to corrupt the tree for
// cycle tests.
func (f *fixture) setDirects(memberID string, directs []string) {
	m := f.member(memberID)
	m.Directs = directs
	f.require.NoError(f.repo.UpdateMember(context.Background(), *m))
}

// setSponsor points a member at an arbitrary sponsor id, used to simulate a
// broken sponsor chain.
func (f *fixture) setSponsor(memberID string, sponsorID string) {
	m := f.member(memberID)
	m.SponsorID = &sponsorID
	f.require.NoError(f.repo.UpdateMember(context.Background(), *m))
}
