package mapping

import (
	"github.com/nexalink/referral_network_app/internal/core/domain"
	"github.com/nexalink/referral_network_app/internal/models"
)

// ToModelMember converts a domain Member to a model Member.
func ToModelMember(d domain.Member) models.Member {
	return models.Member{
		MemberID:         d.MemberID,
		Username:         d.Username,
		Email:            d.Email,
		PasswordHash:     d.PasswordHash,
		SponsorID:        d.SponsorID,
		Directs:          append([]string(nil), d.Directs...),
		Status:           string(d.Status),
		ActivationWallet: d.ActivationWallet,
		MatchingWallet:   d.MatchingWallet,
		TotalIncome:      d.TotalIncome,
		MatchedPairs:     d.MatchedPairs,
		IsAdmin:          d.IsAdmin,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainMember converts a model Member to a domain Member.
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:         m.MemberID,
		Username:         m.Username,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		SponsorID:        m.SponsorID,
		Directs:          append([]string(nil), m.Directs...),
		Status:           domain.ActivationStatus(m.Status),
		ActivationWallet: m.ActivationWallet,
		MatchingWallet:   m.MatchingWallet,
		TotalIncome:      m.TotalIncome,
		MatchedPairs:     m.MatchedPairs,
		IsAdmin:          m.IsAdmin,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}
