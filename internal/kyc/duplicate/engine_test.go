package duplicate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kycgate/internal/imagehash"
	"kycgate/internal/kyc/models"
	"kycgate/internal/kyc/store"
	id "kycgate/pkg/domain"
	dErrors "kycgate/pkg/domain-errors"
)

type EngineSuite struct {
	suite.Suite
	store  *store.InMemoryStore
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.store = store.NewInMemoryStore()
	s.engine = NewEngine(s.store, imagehash.DefaultThreshold)
}

func (s *EngineSuite) seed(docType models.DocumentType, identifier, hash string) {
	now := time.Now()
	s.Require().NoError(s.store.Insert(context.Background(), &models.SubmissionRecord{
		RecordID:              id.NewRecordID(),
		UserID:                models.AnonymousUserID,
		IDDocumentType:        docType,
		AddressDocumentType:   models.DocumentTypeUtilityBill,
		IDImageRef:            "ref",
		AddressImageRef:       "ref",
		SelfieImageRef:        "ref",
		IDExtractedIdentifier: identifier,
		IDPerceptualHash:      hash,
		Status:                models.StatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}))
}

func fingerprintWithDiffs(n int) string {
	b := []byte(strings.Repeat("0", imagehash.HashLength))
	for i := 0; i < n; i++ {
		b[i] = 'f'
	}
	return string(b)
}

func (s *EngineSuite) TestCleanCorpusPasses() {
	hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "ABCDE1234F", fingerprintWithDiffs(0))
	s.NoError(err)
	s.Nil(hit)
}

func (s *EngineSuite) TestLayer1_IdentifierMatch() {
	s.seed(models.DocumentTypePANCard, "ABCDE1234F", "")

	hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "ABCDE1234F", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateDocument))
	s.Contains(err.Error(), "PAN Card")
	s.Require().NotNil(hit)
	s.Equal(LayerIdentifier, hit.Layer)
}

func (s *EngineSuite) TestLayer1_ScopedToDocumentType() {
	s.seed(models.DocumentTypeAadhaarCard, "123412341234", "")

	hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "123412341234", "")
	s.NoError(err)
	s.Nil(hit)
}

func (s *EngineSuite) TestLayer1_SkippedWithoutIdentifier() {
	s.seed(models.DocumentTypePANCard, "ABCDE1234F", "")

	hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "", "")
	s.NoError(err)
	s.Nil(hit)
}

func (s *EngineSuite) TestLayer2_ExactFingerprintMatch() {
	fp := fingerprintWithDiffs(0)
	s.seed(models.DocumentTypePANCard, "", fp)

	hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "", fp)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateDocument))
	s.Contains(err.Error(), "visually similar")
	s.Require().NotNil(hit)
	s.Equal(LayerPerceptual, hit.Layer)
	s.Equal(0, hit.Distance)
	s.InDelta(100.0, hit.SimilarityPercent, 0.001)
}

func (s *EngineSuite) TestLayer2_ThresholdBoundary() {
	s.seed(models.DocumentTypePANCard, "", fingerprintWithDiffs(0))

	s.Run("distance at threshold rejects", func() {
		hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "", fingerprintWithDiffs(10))
		s.Error(err)
		s.Require().NotNil(hit)
		s.Equal(10, hit.Distance)
	})

	s.Run("distance beyond threshold passes", func() {
		hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "", fingerprintWithDiffs(11))
		s.NoError(err)
		s.Nil(hit)
	})
}

func (s *EngineSuite) TestLayer2_RunsWhenLayer1Misses() {
	// Identifier differs but the image is the same: Layer 2 alone rejects.
	fp := fingerprintWithDiffs(0)
	s.seed(models.DocumentTypePANCard, "ABCDE1234F", fp)

	hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "ZZZZZ9999Z", fp)
	s.Require().Error(err)
	s.Require().NotNil(hit)
	s.Equal(LayerPerceptual, hit.Layer)
}

func (s *EngineSuite) TestLayer2_SkippedWithoutFingerprint() {
	s.seed(models.DocumentTypePANCard, "", fingerprintWithDiffs(0))

	hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "", "")
	s.NoError(err)
	s.Nil(hit)
}

func (s *EngineSuite) TestAddressProofNotEnforced() {
	// Only the ID-proof document type is checked; a record whose address
	// proof shares a fingerprint is invisible to the engine's type-scoped
	// queries. Seeding a different ID type demonstrates the scoping.
	s.seed(models.DocumentTypeAadhaarCard, "", fingerprintWithDiffs(0))

	hit, err := s.engine.Check(context.Background(), models.DocumentTypePANCard, "", fingerprintWithDiffs(0))
	s.NoError(err)
	s.Nil(hit)
}
