package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/vertilift/vertilift-backend/pkg/checkout"
	"github.com/vertilift/vertilift-backend/pkg/enums"
)

// IdentityClaims is the typed JWT the external identity provider issues.
// This service only verifies it; it never mints tokens for customers.
type IdentityClaims struct {
	Name                  string                   `json:"name,omitempty"`
	Email                 string                   `json:"email,omitempty"`
	BusinessProfileExists bool                     `json:"business_profile"`
	VerificationStatus    enums.VerificationStatus `json:"verification_status,omitempty"`
	Admin                 bool                     `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Snapshot converts verified claims into the explicit identity input the
// checkout resolver takes.
func (c *IdentityClaims) Snapshot() checkout.IdentitySnapshot {
	if c == nil {
		return checkout.IdentitySnapshot{}
	}
	return checkout.IdentitySnapshot{
		IsSignedIn:            c.Subject != "",
		BusinessProfileExists: c.BusinessProfileExists,
		VerificationStatus:    c.VerificationStatus,
	}
}

// QuoteUserType classifies the requester tier recorded on new quotes.
func (c *IdentityClaims) QuoteUserType() enums.QuoteUserType {
	switch {
	case c == nil || c.Subject == "":
		return enums.QuoteUserTypeGuest
	case !c.BusinessProfileExists:
		return enums.QuoteUserTypeIndividual
	case c.VerificationStatus.IsVerified():
		return enums.QuoteUserTypeVerified
	default:
		return enums.QuoteUserTypeBusiness
	}
}
