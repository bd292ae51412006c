// Package store persists submission records and answers the duplicate
// engine's corpus queries.
package store

import (
	"context"

	"kycgate/internal/kyc/models"
	id "kycgate/pkg/domain"
)

// Store is the submission record corpus. Implementations must support
// concurrent reads during duplicate lookups and a single atomic insert per
// accepted submission. The duplicate check is advisory: two racing
// submissions may both pass their lookups before either insert lands, and
// that is accepted behavior, so no cross-submission locking is required.
type Store interface {
	// Insert persists a new record. The record's ID must be unique.
	Insert(ctx context.Context, record *models.SubmissionRecord) error

	// GetByID returns a record by its ID, or sentinel.ErrNotFound.
	GetByID(ctx context.Context, recordID id.RecordID) (*models.SubmissionRecord, error)

	// FindByTypeAndIdentifier returns a non-rejected record with the given ID
	// document type and extracted identifier, or sentinel.ErrNotFound.
	// Rejected records do not block resubmission.
	FindByTypeAndIdentifier(ctx context.Context, docType models.DocumentType, identifier string) (*models.SubmissionRecord, error)

	// ListFingerprintsByType returns the perceptual fingerprints of all
	// non-rejected records with the given ID document type, excluding absent
	// fingerprints.
	ListFingerprintsByType(ctx context.Context, docType models.DocumentType) ([]string, error)
}
