package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/core/services"
	"github.com/nexalink/referral_network_app/internal/repositories/memory"
)

type TeamServiceTestSuite struct {
	suite.Suite
	repo    *memory.MemberRepository
	fix     *fixture
	service portssvc.TeamSvcFacade
}

func (s *TeamServiceTestSuite) SetupTest() {
	repo, err := memory.NewMemberRepository("")
	s.Require().NoError(err)
	s.repo = repo
	s.fix = newFixture(s.Require(), repo)
	s.service = services.NewTeamService(repo)
}

func (s *TeamServiceTestSuite) TestCountTeam_SingleMember() {
	root := s.fix.seed("root", nil, domain.Active)

	size, err := s.service.CountTeam(context.Background(), root)
	s.Require().NoError(err)
	s.Equal(1, size)
}

func (s *TeamServiceTestSuite) TestCountTeam_SumsChildSubtrees() {
	// root has two children; the first child has two children of its own.
	root := s.fix.seed("root", nil, domain.Active)
	a := s.fix.seed("a", &root, domain.Active)
	s.fix.seed("b", &root, domain.Inactive)
	s.fix.seed("aa", &a, domain.Active)
	s.fix.seed("ab", &a, domain.Inactive)

	size, err := s.service.CountTeam(context.Background(), root)
	s.Require().NoError(err)
	s.Equal(5, size)

	// Team size counts everyone regardless of status.
	sizeA, err := s.service.CountTeam(context.Background(), a)
	s.Require().NoError(err)
	s.Equal(3, sizeA)
}

func (s *TeamServiceTestSuite) TestCountTeam_UnknownMember() {
	_, err := s.service.CountTeam(context.Background(), "missing")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TeamServiceTestSuite) TestLegSummary_NoDirects() {
	root := s.fix.seed("root", nil, domain.Active)

	legs, err := s.service.LegSummary(context.Background(), root)
	s.Require().NoError(err)
	s.Nil(legs.PowerLegChildID)
	s.Equal(0, legs.PowerLegSize)
	s.Equal(0, legs.OtherLegSize)
	s.EqualValues(0, legs.MatchablePairs())
}

func (s *TeamServiceTestSuite) TestLegSummary_PowerLegIsPositional() {
	// The first direct's subtree is the power leg even when a later direct
	// heads a larger subtree.
	root := s.fix.seed("root", nil, domain.Active)
	first := s.fix.seed("first", &root, domain.Active)
	second := s.fix.seed("second", &root, domain.Active)
	s.fix.seed("sa", &second, domain.Active)
	s.fix.seed("sb", &second, domain.Active)

	legs, err := s.service.LegSummary(context.Background(), root)
	s.Require().NoError(err)
	s.Require().NotNil(legs.PowerLegChildID)
	s.Equal(first, *legs.PowerLegChildID)
	s.Equal(1, legs.PowerLegSize)
	s.Equal(3, legs.OtherLegSize)
	s.EqualValues(1, legs.MatchablePairs())
}

func (s *TeamServiceTestSuite) TestLegSummary_OtherLegAggregatesAllNonPowerDirects() {
	root := s.fix.seed("root", nil, domain.Active)
	s.fix.seed("first", &root, domain.Active)
	for _, name := range []string{"c2", "c3", "c4"} {
		s.fix.seed(name, &root, domain.Active)
	}

	legs, err := s.service.LegSummary(context.Background(), root)
	s.Require().NoError(err)
	s.Equal(1, legs.PowerLegSize)
	s.Equal(3, legs.OtherLegSize)
}

func (s *TeamServiceTestSuite) TestGetSubtree_ReflectsStructure() {
	root := s.fix.seed("root", nil, domain.Active)
	a := s.fix.seed("a", &root, domain.Active)
	b := s.fix.seed("b", &root, domain.Active)
	aa := s.fix.seed("aa", &a, domain.Active)

	tree, err := s.service.GetSubtree(context.Background(), root)
	s.Require().NoError(err)
	s.Equal(root, tree.MemberID)
	s.Require().Len(tree.Directs, 2)
	s.Equal(a, tree.Directs[0].MemberID)
	s.Equal(b, tree.Directs[1].MemberID)
	s.Require().Len(tree.Directs[0].Directs, 1)
	s.Equal(aa, tree.Directs[0].Directs[0].MemberID)
	s.Equal(4, tree.Size())
}

func (s *TeamServiceTestSuite) TestWalks_DetectCycles() {
	// Corrupt the store so a and b list each other as directs.
	root := s.fix.seed("root", nil, domain.Active)
	a := s.fix.seed("a", &root, domain.Active)
	b := s.fix.seed("b", &a, domain.Active)
	s.fix.setDirects(b, []string{a})

	_, err := s.service.CountTeam(context.Background(), root)
	s.Require().Error(err)
	s.ErrorIs(err, services.ErrCycleDetected)

	_, err = s.service.GetSubtree(context.Background(), root)
	s.Require().Error(err)
	s.ErrorIs(err, services.ErrCycleDetected)
}

func TestTeamServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TeamServiceTestSuite))
}
