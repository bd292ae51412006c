package store

import (
	"context"
	"sync"

	"kycgate/internal/kyc/models"
	id "kycgate/pkg/domain"
	"kycgate/pkg/platform/sentinel"
)

// InMemoryStore keeps submission records in process memory. Used for local
// development and unit tests; the postgres store is the production corpus.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.RecordID]models.SubmissionRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.RecordID]models.SubmissionRecord)}
}

func (s *InMemoryStore) Insert(_ context.Context, record *models.SubmissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.RecordID]; exists {
		return sentinel.ErrConflict
	}
	s.records[record.RecordID] = *record
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, recordID id.RecordID) (*models.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &record, nil
}

func (s *InMemoryStore) FindByTypeAndIdentifier(_ context.Context, docType models.DocumentType, identifier string) (*models.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if record.IDDocumentType == docType &&
			record.IDExtractedIdentifier == identifier &&
			record.Status != models.StatusRejected {
			r := record
			return &r, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListFingerprintsByType(_ context.Context, docType models.DocumentType) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var fingerprints []string
	for _, record := range s.records {
		if record.IDDocumentType == docType &&
			record.IDPerceptualHash != "" &&
			record.Status != models.StatusRejected {
			fingerprints = append(fingerprints, record.IDPerceptualHash)
		}
	}
	return fingerprints, nil
}

// Len reports the number of stored records. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
