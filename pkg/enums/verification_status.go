package enums

// VerificationStatus mirrors the state the external identity provider reports
// for a business profile. Absent profiles carry VerificationStatusNone.
type VerificationStatus string

const (
	VerificationStatusNone       VerificationStatus = ""
	VerificationStatusUnverified VerificationStatus = "unverified"
	VerificationStatusVerified   VerificationStatus = "verified"
)

// String implements fmt.Stringer.
func (v VerificationStatus) String() string {
	return string(v)
}

// IsVerified reports whether the profile completed verification.
func (v VerificationStatus) IsVerified() bool {
	return v == VerificationStatusVerified
}
