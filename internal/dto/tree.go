package dto

import (
	"github.com/nexalink/referral_network_app/internal/core/domain"
)

// LegSummaryResponse defines the data returned for a member's leg split.
type LegSummaryResponse struct {
	PowerLegChildID *string `json:"powerLegChildID"`
	PowerLegSize    int     `json:"powerLegSize"`
	OtherLegSize    int     `json:"otherLegSize"`
}

// ToLegSummaryResponse converts a domain.LegSummary.
func ToLegSummaryResponse(l *domain.LegSummary) LegSummaryResponse {
	return LegSummaryResponse{
		PowerLegChildID: l.PowerLegChildID,
		PowerLegSize:    l.PowerLegSize,
		OtherLegSize:    l.OtherLegSize,
	}
}

// SubtreeNodeResponse is the recursive downline view returned to clients.
type SubtreeNodeResponse struct {
	MemberID string                `json:"memberID"`
	Directs  []SubtreeNodeResponse `json:"directs"`
}

// ToSubtreeNodeResponse converts a domain.SubtreeNode recursively.
func ToSubtreeNodeResponse(n *domain.SubtreeNode) SubtreeNodeResponse {
	out := SubtreeNodeResponse{
		MemberID: n.MemberID,
		Directs:  make([]SubtreeNodeResponse, len(n.Directs)),
	}
	for i := range n.Directs {
		out.Directs[i] = ToSubtreeNodeResponse(&n.Directs[i])
	}
	return out
}
