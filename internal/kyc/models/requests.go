package models

import (
	"time"

	dErrors "kycgate/pkg/domain-errors"
)

// SubmitRequest is the inbound submission payload. Images arrive as data-URI
// encoded bytes.
type SubmitRequest struct {
	IDProofType       DocumentType `json:"idProofType"`
	IDProofImage      string       `json:"idProofImage"`
	AddressProofType  DocumentType `json:"addressProofType"`
	AddressProofImage string       `json:"addressProofImage"`
	SelfieImage       string       `json:"selfieImage"`
	UserID            string       `json:"userId,omitempty"`
}

// Validate enforces the five required submission fields. Validation is the
// first pipeline stage: nothing is fingerprinted, extracted, or persisted for
// an incomplete submission.
func (r SubmitRequest) Validate() error {
	switch {
	case r.IDProofType == "":
		return dErrors.New(dErrors.CodeMissingField, "idProofType is required")
	case r.IDProofImage == "":
		return dErrors.New(dErrors.CodeMissingField, "idProofImage is required")
	case r.AddressProofType == "":
		return dErrors.New(dErrors.CodeMissingField, "addressProofType is required")
	case r.AddressProofImage == "":
		return dErrors.New(dErrors.CodeMissingField, "addressProofImage is required")
	case r.SelfieImage == "":
		return dErrors.New(dErrors.CodeMissingField, "selfieImage is required")
	}
	return nil
}

// SubmitResult reports an accepted submission.
type SubmitResult struct {
	RecordID    string    `json:"recordId"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// MatchFacesRequest is the inbound payload for the face-match endpoint.
type MatchFacesRequest struct {
	PassportPhoto string `json:"passportPhoto"`
	Selfie        string `json:"selfie"`
}

// RecordView is the read-only projection returned by the status lookup.
// Image bytes and refs are deliberately excluded.
type RecordView struct {
	RecordID            string       `json:"recordId"`
	UserID              string       `json:"userId"`
	IDDocumentType      DocumentType `json:"idProofType"`
	AddressDocumentType DocumentType `json:"addressProofType"`
	Status              Status       `json:"status"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// View projects a record for API responses.
func (r *SubmissionRecord) View() RecordView {
	return RecordView{
		RecordID:            r.RecordID.String(),
		UserID:              r.UserID,
		IDDocumentType:      r.IDDocumentType,
		AddressDocumentType: r.AddressDocumentType,
		Status:              r.Status,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}
