package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kycgate/internal/kyc/models"
	id "kycgate/pkg/domain"
	"kycgate/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func newTestRecord(docType models.DocumentType, identifier, hash string) *models.SubmissionRecord {
	now := time.Now()
	return &models.SubmissionRecord{
		RecordID:              id.NewRecordID(),
		UserID:                models.AnonymousUserID,
		IDDocumentType:        docType,
		AddressDocumentType:   models.DocumentTypeUtilityBill,
		IDImageRef:            "data:image/png;base64,aWQ=",
		AddressImageRef:       "data:image/png;base64,YWRkcg==",
		SelfieImageRef:        "data:image/png;base64,c2VsZmll",
		IDExtractedIdentifier: identifier,
		IDPerceptualHash:      hash,
		Status:                models.StatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func (s *MemoryStoreSuite) TestInsertAndGet() {
	ctx := context.Background()
	record := newTestRecord(models.DocumentTypePANCard, "ABCDE1234F", "")

	s.Require().NoError(s.store.Insert(ctx, record))

	got, err := s.store.GetByID(ctx, record.RecordID)
	s.Require().NoError(err)
	s.Equal(record.RecordID, got.RecordID)
	s.Equal(models.StatusPending, got.Status)
}

func (s *MemoryStoreSuite) TestInsert_DuplicateIDConflicts() {
	ctx := context.Background()
	record := newTestRecord(models.DocumentTypePANCard, "ABCDE1234F", "")

	s.Require().NoError(s.store.Insert(ctx, record))
	s.ErrorIs(s.store.Insert(ctx, record), sentinel.ErrConflict)
}

func (s *MemoryStoreSuite) TestGetByID_Missing() {
	_, err := s.store.GetByID(context.Background(), id.NewRecordID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestFindByTypeAndIdentifier() {
	ctx := context.Background()
	s.Require().NoError(s.store.Insert(ctx, newTestRecord(models.DocumentTypePANCard, "ABCDE1234F", "")))

	s.Run("same type and identifier hits", func() {
		got, err := s.store.FindByTypeAndIdentifier(ctx, models.DocumentTypePANCard, "ABCDE1234F")
		s.Require().NoError(err)
		s.Equal("ABCDE1234F", got.IDExtractedIdentifier)
	})

	s.Run("different type misses", func() {
		_, err := s.store.FindByTypeAndIdentifier(ctx, models.DocumentTypeAadhaarCard, "ABCDE1234F")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("different identifier misses", func() {
		_, err := s.store.FindByTypeAndIdentifier(ctx, models.DocumentTypePANCard, "ZZZZZ9999Z")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejected records do not block resubmission", func() {
		rejected := newTestRecord(models.DocumentTypePANCard, "QQQQQ1111Q", "")
		rejected.Status = models.StatusRejected
		s.Require().NoError(s.store.Insert(ctx, rejected))

		_, err := s.store.FindByTypeAndIdentifier(ctx, models.DocumentTypePANCard, "QQQQQ1111Q")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestListFingerprintsByType() {
	ctx := context.Background()
	s.Require().NoError(s.store.Insert(ctx, newTestRecord(models.DocumentTypePANCard, "", "aaaa")))
	s.Require().NoError(s.store.Insert(ctx, newTestRecord(models.DocumentTypePANCard, "", "bbbb")))
	s.Require().NoError(s.store.Insert(ctx, newTestRecord(models.DocumentTypePANCard, "", "")))
	s.Require().NoError(s.store.Insert(ctx, newTestRecord(models.DocumentTypeAadhaarCard, "", "cccc")))

	fingerprints, err := s.store.ListFingerprintsByType(ctx, models.DocumentTypePANCard)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"aaaa", "bbbb"}, fingerprints)
}

func (s *MemoryStoreSuite) TestConcurrentReadsAndInserts() {
	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.store.Insert(ctx, newTestRecord(models.DocumentTypePANCard, "", "ffff"))
			_, _ = s.store.ListFingerprintsByType(ctx, models.DocumentTypePANCard)
		}()
	}
	wg.Wait()

	s.Equal(writers, s.store.Len())
}
