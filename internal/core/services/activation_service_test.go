package services_test

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/core/services"
	"github.com/nexalink/referral_network_app/internal/dto"
	"github.com/nexalink/referral_network_app/internal/repositories/memory"
)

type ActivationServiceTestSuite struct {
	suite.Suite
	repo    *memory.MemberRepository
	fix     *fixture
	clock   *clockwork.FakeClock
	plan    domain.CompensationPlan
	service portssvc.ActivationSvcFacade
}

func (s *ActivationServiceTestSuite) SetupTest() {
	repo, err := memory.NewMemberRepository("")
	s.Require().NoError(err)
	s.repo = repo
	s.fix = newFixture(s.Require(), repo)
	s.clock = clockwork.NewFakeClockAt(testFixedTime)
	s.plan = domain.DefaultCompensationPlan()
	s.service = services.NewActivationService(repo, s.plan, s.clock)
}

func (s *ActivationServiceTestSuite) mustActivate(memberID string) *dto.ActivationResult {
	result, err := s.service.ActivateMember(context.Background(), memberID)
	s.Require().NoError(err)
	return result
}

func (s *ActivationServiceTestSuite) TestActivateMember_UnknownMember() {
	_, err := s.service.ActivateMember(context.Background(), "missing")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ActivationServiceTestSuite) TestActivateMember_FlipsStatus() {
	root := s.fix.seed("root", nil, domain.Inactive)

	result, err := s.service.ActivateMember(context.Background(), root)
	s.Require().NoError(err)
	s.Equal(root, result.MemberID)
	s.Empty(result.LevelPayouts)
	s.Empty(result.MatchingPayouts)
	s.True(result.TotalPaid.IsZero())

	s.Equal(domain.Active, s.fix.member(root).Status)
}

func (s *ActivationServiceTestSuite) TestActivateMember_SecondActivationPaysNothing() {
	root := s.fix.seed("root", nil, domain.Active)
	child := s.fix.seed("child", &root, domain.Inactive)

	_, err := s.service.ActivateMember(context.Background(), child)
	s.Require().NoError(err)
	walletAfterFirst := s.fix.member(root).ActivationWallet

	_, err = s.service.ActivateMember(context.Background(), child)
	s.Require().Error(err)
	s.ErrorIs(err, services.ErrAlreadyActive)

	// The retry credited nothing and appended nothing.
	s.True(walletAfterFirst.Equal(s.fix.member(root).ActivationWallet))
	entries, listErr := s.repo.ListLedgerEntriesByMember(context.Background(), root)
	s.Require().NoError(listErr)
	s.Len(entries, 1)
}

func (s *ActivationServiceTestSuite) TestActivateMember_PaysDirectSponsor() {
	root := s.fix.seed("root", nil, domain.Active)
	child := s.fix.seed("child", &root, domain.Inactive)

	result, err := s.service.ActivateMember(context.Background(), child)
	s.Require().NoError(err)

	// Level 1 pays 10 with no direct-count gate.
	s.Require().Len(result.LevelPayouts, 1)
	s.Equal(root, result.LevelPayouts[0].MemberID)
	s.Equal(1, result.LevelPayouts[0].Level)
	s.True(decimal.NewFromInt(10).Equal(result.LevelPayouts[0].Amount))

	// A single leg matches no pairs.
	s.Empty(result.MatchingPayouts)
	s.True(decimal.NewFromInt(10).Equal(result.TotalPaid))

	reloaded := s.fix.member(root)
	s.True(decimal.NewFromInt(10).Equal(reloaded.ActivationWallet))
	s.True(reloaded.MatchingWallet.IsZero())
	s.True(decimal.NewFromInt(10).Equal(reloaded.TotalIncome))

	entries, listErr := s.repo.ListLedgerEntriesByMember(context.Background(), root)
	s.Require().NoError(listErr)
	s.Require().Len(entries, 1)
	s.Equal(domain.LevelIncome, entries[0].Type)
	s.Equal(child, entries[0].FromMemberID)
	s.Equal(1, entries[0].Level)
}

func (s *ActivationServiceTestSuite) TestActivateMember_LevelTwoGateBlocksUnderqualifiedAncestor() {
	// Grandparent has only one direct; the level 2 gate requires two.
	gp := s.fix.seed("gp", nil, domain.Active)
	parent := s.fix.seed("parent", &gp, domain.Active)
	child := s.fix.seed("child", &parent, domain.Inactive)

	result, err := s.service.ActivateMember(context.Background(), child)
	s.Require().NoError(err)

	s.Require().Len(result.LevelPayouts, 1)
	s.Equal(parent, result.LevelPayouts[0].MemberID)
	s.True(s.fix.member(gp).ActivationWallet.IsZero())
}

func (s *ActivationServiceTestSuite) TestActivateMember_LevelTwoPaidWhenGateCleared() {
	gp := s.fix.seed("gp", nil, domain.Active)
	parent := s.fix.seed("parent", &gp, domain.Active)
	s.fix.seed("extra", &gp, domain.Active)
	child := s.fix.seed("child", &parent, domain.Inactive)

	result, err := s.service.ActivateMember(context.Background(), child)
	s.Require().NoError(err)

	// parent gets level 1 (10), gp gets level 2 (5).
	s.Require().Len(result.LevelPayouts, 2)
	s.Equal(parent, result.LevelPayouts[0].MemberID)
	s.True(decimal.NewFromInt(10).Equal(result.LevelPayouts[0].Amount))
	s.Equal(gp, result.LevelPayouts[1].MemberID)
	s.Equal(2, result.LevelPayouts[1].Level)
	s.True(decimal.NewFromInt(5).Equal(result.LevelPayouts[1].Amount))

	// gp's legs: power leg holds parent+child, other leg holds extra.
	s.Require().Len(result.MatchingPayouts, 1)
	s.Equal(gp, result.MatchingPayouts[0].MemberID)
	s.EqualValues(1, result.MatchingPayouts[0].PairsAdded)
	s.True(decimal.NewFromInt(10).Equal(result.MatchingPayouts[0].Amount))

	reloadedGp := s.fix.member(gp)
	s.True(decimal.NewFromInt(5).Equal(reloadedGp.ActivationWallet))
	s.True(decimal.NewFromInt(10).Equal(reloadedGp.MatchingWallet))
	s.True(decimal.NewFromInt(15).Equal(reloadedGp.TotalIncome))
	s.EqualValues(1, reloadedGp.MatchedPairs)
}

func (s *ActivationServiceTestSuite) TestActivateMember_InactiveAncestorAbsorbsLevel() {
	// parent is inactive: it receives nothing but still consumes level 1,
	// so gp is evaluated at level 2 (5), not level 1 (10).
	gp := s.fix.seed("gp", nil, domain.Active)
	parent := s.fix.seed("parent", &gp, domain.Inactive)
	s.fix.seed("extra", &gp, domain.Active)
	child := s.fix.seed("child", &parent, domain.Inactive)

	result, err := s.service.ActivateMember(context.Background(), child)
	s.Require().NoError(err)

	s.Require().Len(result.LevelPayouts, 1)
	s.Equal(gp, result.LevelPayouts[0].MemberID)
	s.Equal(2, result.LevelPayouts[0].Level)
	s.True(decimal.NewFromInt(5).Equal(result.LevelPayouts[0].Amount))
	s.True(s.fix.member(parent).ActivationWallet.IsZero())

	// The matching walk skips the inactive parent at no cost: gp still
	// matches its pair.
	s.Require().Len(result.MatchingPayouts, 1)
	s.Equal(gp, result.MatchingPayouts[0].MemberID)
}

func (s *ActivationServiceTestSuite) TestActivateMember_MatchedPairsNeverRecounted() {
	root := s.fix.seed("root", nil, domain.Active)
	x := s.fix.seed("x", &root, domain.Inactive)
	y := s.fix.seed("y", &root, domain.Inactive)

	// Activating x balances nothing yet (y's subtree alone makes the pair).
	s.mustActivate(x)
	s.EqualValues(1, s.fix.member(root).MatchedPairs)

	// Activating y adds no new pair: min(1, 1) is already paid for.
	result := s.mustActivate(y)
	s.Empty(result.MatchingPayouts)
	s.EqualValues(1, s.fix.member(root).MatchedPairs)

	// Growing both legs by one each adds exactly one new pair, paid when
	// the second leg catches up.
	xa := s.fix.seed("xa", &x, domain.Inactive)
	s.mustActivate(xa)
	s.EqualValues(1, s.fix.member(root).MatchedPairs)

	ya := s.fix.seed("ya", &y, domain.Inactive)
	result = s.mustActivate(ya)

	var rootPayouts int64
	for _, p := range result.MatchingPayouts {
		if p.MemberID == root {
			rootPayouts += p.PairsAdded
		}
	}
	s.EqualValues(1, rootPayouts)
	s.EqualValues(2, s.fix.member(root).MatchedPairs)
}

func (s *ActivationServiceTestSuite) TestActivateMember_DanglingSponsorStopsWalkWithoutRollback() {
	root := s.fix.seed("root", nil, domain.Active)
	child := s.fix.seed("child", &root, domain.Inactive)
	s.fix.setSponsor(root, "ghost")

	result, err := s.service.ActivateMember(context.Background(), child)
	s.Require().NoError(err)

	// root was paid before the walk hit the missing ancestor; the payment
	// stands and the member is active.
	s.Require().Len(result.LevelPayouts, 1)
	s.True(decimal.NewFromInt(10).Equal(s.fix.member(root).ActivationWallet))
	s.Equal(domain.Active, s.fix.member(child).Status)
}

func (s *ActivationServiceTestSuite) TestActivateMember_LevelIncomeCapsAtThirtyLevels() {
	// A flat plan (1 per level, no gates) makes depth behavior visible.
	plan := domain.DefaultCompensationPlan()
	for i := range plan.LevelIncome {
		plan.LevelIncome[i] = decimal.NewFromInt(1)
		plan.DirectRequirements[i] = 0
	}
	service := services.NewActivationService(s.repo, plan, s.clock)

	chain := s.fix.seedChain("deep", 33, domain.Active)
	bottom := s.fix.seed("bottom", &chain[len(chain)-1], domain.Inactive)

	// Give the root a second leg so the matching walk has a pair to find
	// beyond the level cap.
	s.fix.seed("sideleg", &chain[0], domain.Active)

	result, err := service.ActivateMember(context.Background(), bottom)
	s.Require().NoError(err)

	// Exactly 30 level payouts: ancestors 31+ are beyond the cap.
	s.Require().Len(result.LevelPayouts, 30)
	s.Equal(chain[len(chain)-1], result.LevelPayouts[0].MemberID)
	s.Equal(30, result.LevelPayouts[29].Level)
	s.True(s.fix.member(chain[1]).ActivationWallet.IsZero())
	s.True(s.fix.member(chain[0]).ActivationWallet.IsZero())

	// The matching walk is not depth-limited: the root, 33 levels up,
	// still matches its pair.
	s.Require().Len(result.MatchingPayouts, 1)
	s.Equal(chain[0], result.MatchingPayouts[0].MemberID)
	s.EqualValues(1, result.MatchingPayouts[0].PairsAdded)
}

func TestActivationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ActivationServiceTestSuite))
}
