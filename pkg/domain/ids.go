// Package domain holds typed identifiers shared across the module. Distinct
// ID types prevent accidental cross-assignment at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "kycgate/pkg/domain-errors"
)

// RecordID identifies a persisted submission record. Assigned once at
// creation and immutable afterwards.
type RecordID uuid.UUID

// NewRecordID returns a freshly generated record ID.
func NewRecordID() RecordID {
	return RecordID(uuid.New())
}

// ParseRecordID validates and returns a RecordID. IDs must be valid,
// non-empty, non-nil UUIDs.
func ParseRecordID(s string) (RecordID, error) {
	if s == "" {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return RecordID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "record id is not a valid UUID")
	}
	if u == uuid.Nil {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id must not be the nil UUID")
	}
	return RecordID(u), nil
}

func (r RecordID) String() string {
	return uuid.UUID(r).String()
}

// IsNil reports whether the ID is the zero value.
func (r RecordID) IsNil() bool {
	return uuid.UUID(r) == uuid.Nil
}
