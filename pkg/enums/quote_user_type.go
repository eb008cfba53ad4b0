package enums

import "fmt"

// QuoteUserType classifies the requester at the time the quote was created.
type QuoteUserType string

const (
	QuoteUserTypeGuest      QuoteUserType = "guest"
	QuoteUserTypeIndividual QuoteUserType = "individual"
	QuoteUserTypeBusiness   QuoteUserType = "business"
	QuoteUserTypeVerified   QuoteUserType = "verified"
)

var validQuoteUserTypes = []QuoteUserType{
	QuoteUserTypeGuest,
	QuoteUserTypeIndividual,
	QuoteUserTypeBusiness,
	QuoteUserTypeVerified,
}

// String implements fmt.Stringer.
func (q QuoteUserType) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuoteUserType.
func (q QuoteUserType) IsValid() bool {
	for _, candidate := range validQuoteUserTypes {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuoteUserType converts raw input into a QuoteUserType.
func ParseQuoteUserType(value string) (QuoteUserType, error) {
	for _, candidate := range validQuoteUserTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote user type %q", value)
}
