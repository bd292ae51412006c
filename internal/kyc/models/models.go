// Package models holds the submission domain entities shared by the store,
// service, and handler layers.
package models

import (
	"time"

	id "kycgate/pkg/domain"
)

// DocumentType labels an identity or address proof document.
type DocumentType string

const (
	DocumentTypePANCard         DocumentType = "PAN Card"
	DocumentTypeAadhaarCard     DocumentType = "Aadhaar Card"
	DocumentTypePassport        DocumentType = "Passport"
	DocumentTypeVoterID         DocumentType = "Voter ID"
	DocumentTypeUtilityBill     DocumentType = "Utility Bill"
	DocumentTypeRentalAgreement DocumentType = "Rental Agreement"
)

// Status is the verification lifecycle state of a submission record.
// Records are created pending; review moves them to approved or rejected
// outside this subsystem.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// AnonymousUserID is the placeholder applied when a submission carries no
// user identity.
const AnonymousUserID = "default_user"

// SubmissionRecord is the persisted verification record. RecordID is assigned
// once at creation and never changes; image refs are always populated;
// identifier and fingerprint fields are empty strings only when the
// corresponding extraction was skipped or failed (persisted as NULL, never as
// an empty string).
type SubmissionRecord struct {
	RecordID            id.RecordID
	UserID              string
	IDDocumentType      DocumentType
	AddressDocumentType DocumentType

	IDImageRef      string
	AddressImageRef string
	SelfieImageRef  string

	IDExtractedIdentifier      string
	AddressExtractedIdentifier string
	IDPerceptualHash           string
	AddressPerceptualHash      string

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
