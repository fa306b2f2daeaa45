package services

// TokenSvcFacade issues and validates session tokens for the member panel.
type TokenSvcFacade interface {
	// GenerateToken issues a signed token whose subject is the member id.
	GenerateToken(memberID string) (string, error)

	// ValidateToken verifies the token and returns the member id it carries.
	ValidateToken(tokenString string) (string, error)
}
