package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/core/services"
	"github.com/nexalink/referral_network_app/internal/repositories/memory"
	"github.com/nexalink/referral_network_app/internal/utils"
)

type MemberServiceTestSuite struct {
	suite.Suite
	repo    *memory.MemberRepository
	fix     *fixture
	service portssvc.MemberSvcFacade
}

func (s *MemberServiceTestSuite) SetupTest() {
	repo, err := memory.NewMemberRepository("")
	s.Require().NoError(err)
	s.repo = repo
	s.fix = newFixture(s.Require(), repo)
	s.service = services.NewMemberService(repo, services.NewTeamService(repo), domain.DefaultCompensationPlan())
}

// seedWithPassword seeds a member whose stored hash verifies the given password.
func (s *MemberServiceTestSuite) seedWithPassword(username, password string) string {
	id := s.fix.seed(username, nil, domain.Active)
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)

	m := s.fix.member(id)
	m.PasswordHash = hash
	s.Require().NoError(s.repo.UpdateMember(context.Background(), *m))
	return id
}

func (s *MemberServiceTestSuite) TestAuthenticate_Success() {
	id := s.seedWithPassword("alice", "correct-horse-battery")

	member, err := s.service.Authenticate(context.Background(), "alice", "correct-horse-battery")
	s.Require().NoError(err)
	s.Equal(id, member.MemberID)
}

func (s *MemberServiceTestSuite) TestAuthenticate_WrongPassword() {
	s.seedWithPassword("alice", "correct-horse-battery")

	_, err := s.service.Authenticate(context.Background(), "alice", "wrong")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *MemberServiceTestSuite) TestAuthenticate_UnknownUsernameSameError() {
	_, err := s.service.Authenticate(context.Background(), "nobody", "whatever")
	s.Require().Error(err)
	// Indistinguishable from a wrong password.
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *MemberServiceTestSuite) TestGetMemberByID() {
	id := s.fix.seed("alice", nil, domain.Active)

	member, err := s.service.GetMemberByID(context.Background(), id)
	s.Require().NoError(err)
	s.Equal("alice", member.Username)

	_, err = s.service.GetMemberByID(context.Background(), "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *MemberServiceTestSuite) TestGetDashboard() {
	root := s.fix.seed("root", nil, domain.Active)
	first := s.fix.seed("first", &root, domain.Active)
	second := s.fix.seed("second", &root, domain.Active)
	s.fix.seed("grandchild", &second, domain.Active)

	dashboard, err := s.service.GetDashboard(context.Background(), root)
	s.Require().NoError(err)

	s.Equal(root, dashboard.Member.MemberID)
	s.Equal(2, dashboard.DirectCount)
	s.Equal(4, dashboard.TeamSize)
	s.Require().NotNil(dashboard.Legs.PowerLegChildID)
	s.Equal(first, *dashboard.Legs.PowerLegChildID)
	s.Equal(1, dashboard.Legs.PowerLegSize)
	s.Equal(2, dashboard.Legs.OtherLegSize)
	s.True(decimal.NewFromInt(25).Equal(dashboard.ActivationCost))
	s.True(decimal.NewFromInt(10).Equal(dashboard.MatchingPerPair))
}

func (s *MemberServiceTestSuite) TestListMembers_AdminOnly() {
	admin := s.fix.seed("admin", nil, domain.Active)
	m := s.fix.member(admin)
	m.IsAdmin = true
	s.Require().NoError(s.repo.UpdateMember(context.Background(), *m))

	regular := s.fix.seed("regular", nil, domain.Active)

	members, err := s.service.ListMembers(context.Background(), admin, 10, 0)
	s.Require().NoError(err)
	s.Len(members, 2)

	_, err = s.service.ListMembers(context.Background(), regular, 10, 0)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func TestMemberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}
