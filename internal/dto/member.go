package dto

import (
	"time"

	"github.com/nexalink/referral_network_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterMemberRequest defines the data needed to place a new member.
// SponsorID is a pointer so that a missing field (root bootstrap) can be
// told apart from an empty one.
type RegisterMemberRequest struct {
	Username  string  `json:"username" binding:"required,username"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	SponsorID *string `json:"sponsorID"`
}

// MemberResponse defines the data returned for a member.
// Mirrors domain.Member minus the password hash.
type MemberResponse struct {
	MemberID         string                  `json:"memberID"`
	Username         string                  `json:"username"`
	Email            string                  `json:"email"`
	SponsorID        *string                 `json:"sponsorID"`
	Directs          []string                `json:"directs"`
	Status           domain.ActivationStatus `json:"status"`
	ActivationWallet decimal.Decimal         `json:"activationWallet"`
	MatchingWallet   decimal.Decimal         `json:"matchingWallet"`
	TotalIncome      decimal.Decimal         `json:"totalIncome"`
	MatchedPairs     int64                   `json:"matchedPairs"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:         m.MemberID,
		Username:         m.Username,
		Email:            m.Email,
		SponsorID:        m.SponsorID,
		Directs:          m.Directs,
		Status:           m.Status,
		ActivationWallet: m.ActivationWallet,
		MatchingWallet:   m.MatchingWallet,
		TotalIncome:      m.TotalIncome,
		MatchedPairs:     m.MatchedPairs,
		CreatedAt:        m.CreatedAt,
	}
}

// ToMemberResponses converts a slice of domain members.
func ToMemberResponses(members []domain.Member) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = ToMemberResponse(&members[i])
	}
	return out
}

// ListMembersResponse wraps the admin member listing.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// DashboardResponse holds the member-panel figures.
type DashboardResponse struct {
	Member          MemberResponse     `json:"member"`
	DirectCount     int                `json:"directCount"`
	TeamSize        int                `json:"teamSize"`
	Legs            LegSummaryResponse `json:"legs"`
	ActivationCost  decimal.Decimal    `json:"activationCost"`
	MatchingPerPair decimal.Decimal    `json:"matchingPerPair"`
}
