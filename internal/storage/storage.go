// Package storage abstracts where submitted images live. The pipeline never
// fails a submission over storage: when the configured store errors or no
// store is configured, the inline data URI itself becomes the stored
// reference.
package storage

import "context"

// Slot names the purpose of a stored image.
type Slot string

const (
	SlotIDProof      Slot = "id_proofs"
	SlotAddressProof Slot = "address_proofs"
	SlotSelfie       Slot = "selfies"
)

// ImageStore persists an image and returns a stable reference to it.
type ImageStore interface {
	Save(ctx context.Context, slot Slot, dataURI string) (string, error)
}

// InlineStore is the degradation path: the data URI is its own reference.
// Always succeeds.
type InlineStore struct{}

func NewInlineStore() *InlineStore {
	return &InlineStore{}
}

func (s *InlineStore) Save(_ context.Context, _ Slot, dataURI string) (string, error) {
	return dataURI, nil
}
