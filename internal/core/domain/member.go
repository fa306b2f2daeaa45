package domain

import (
	"github.com/shopspring/decimal"
)

// ActivationStatus is the compensation-relevant lifecycle state of a member.
// The transition is one-way: Inactive -> Active.
type ActivationStatus string

const (
	Inactive ActivationStatus = "INACTIVE"
	Active   ActivationStatus = "ACTIVE"
)

// Member represents a participant in the referral network.
// This is the primary representation used by services.
type Member struct {
	MemberID     string  `json:"memberID"` // Primary Key (UUID)
	Username     string  `json:"username"` // Unique across all members
	Email        string  `json:"email"`    // Unique across all members
	PasswordHash string  `json:"-"`
	SponsorID    *string `json:"sponsorID"` // Nil for root members; fixed at creation

	// Directs holds the ids of directly referred members in placement order.
	// The first entry is the power-leg child forever; the invariant
	// len(Directs) <= CompensationPlan.MaxDirects is enforced at placement.
	Directs []string `json:"directs"`

	Status ActivationStatus `json:"status"`

	ActivationWallet decimal.Decimal `json:"activationWallet"`
	MatchingWallet   decimal.Decimal `json:"matchingWallet"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`

	// MatchedPairs counts the leg pairs already paid for; it never decreases.
	MatchedPairs int64 `json:"matchedPairs"`

	IsAdmin bool `json:"isAdmin"`
	AuditFields
}

// IsActive reports whether the member has completed activation.
func (m *Member) IsActive() bool {
	return m.Status == Active
}

// PowerLegChildID returns the id of the first-ever direct, or nil when the
// member has no directs yet.
func (m *Member) PowerLegChildID() *string {
	if len(m.Directs) == 0 {
		return nil
	}
	return &m.Directs[0]
}
