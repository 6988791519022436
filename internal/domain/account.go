package domain

import "github.com/google/uuid"

// AccountType classifies the caller for checkout eligibility decisions.
type AccountType string

const (
	AccountGuest              AccountType = "guest"
	AccountIndividual         AccountType = "individual"
	AccountBusinessUnverified AccountType = "business_unverified"
	AccountBusinessVerified   AccountType = "business_verified"
)

// Business verification statuses as stored on the business profile.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// BusinessProfile is the subset of the business record this core reads.
// The document-review process that moves verification_status is owned by
// the back-office, not by this service.
type BusinessProfile struct {
	ID                 uuid.UUID
	UserID             string
	CompanyName        string
	GSTNumber          string
	VerificationStatus string
}

// ClassifyAccount derives the account type from the authenticated identity
// and its business profile. This is the single derivation point; callers
// classify once per request and pass the result down explicitly.
//
// No session means guest. A session without a business profile is an
// individual buyer. A profile is a business account, verified or not.
func ClassifyAccount(userID string, profile *BusinessProfile) AccountType {
	if userID == "" {
		return AccountGuest
	}
	if profile == nil {
		return AccountIndividual
	}
	if profile.VerificationStatus == VerificationVerified {
		return AccountBusinessVerified
	}
	return AccountBusinessUnverified
}
