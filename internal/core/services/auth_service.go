package services

import (
	"fmt"

	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/platform/config"
	"github.com/nexalink/referral_network_app/internal/utils"
)

// tokenService issues and validates member panel session tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateToken issues a signed JWT whose subject is the member id.
func (s *tokenService) GenerateToken(memberID string) (string, error) {
	token, err := utils.GenerateJWT(memberID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ValidateToken verifies the token and returns the member id it carries.
func (s *tokenService) ValidateToken(tokenString string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(tokenString, s.cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	return claims.Subject, nil
}
