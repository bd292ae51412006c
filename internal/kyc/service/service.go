// Package service orchestrates the submission pipeline: validation,
// fingerprinting, text extraction, duplicate resolution, and persistence, in
// that strict order. No record is persisted on any rejection path.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"kycgate/internal/events"
	"kycgate/internal/imagehash"
	"kycgate/internal/kyc/docid"
	"kycgate/internal/kyc/duplicate"
	"kycgate/internal/kyc/metrics"
	"kycgate/internal/kyc/models"
	"kycgate/internal/kyc/store"
	"kycgate/internal/ocr"
	"kycgate/internal/storage"
	id "kycgate/pkg/domain"
	dErrors "kycgate/pkg/domain-errors"
	"kycgate/pkg/platform/sentinel"
	"kycgate/pkg/requestcontext"
)

// Service runs the intake pipeline for one submission at a time per call.
// Concurrent calls are safe: the corpus supports concurrent reads and the
// duplicate check is advisory (see duplicate.Engine).
type Service struct {
	store      store.Store
	recognizer ocr.TextRecognizer
	images     storage.ImageStore
	engine     *duplicate.Engine

	events  events.Publisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger

	ocrLanguage string
	ocrTimeout  time.Duration
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithEventPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithTracing() Option {
	return func(s *Service) { s.tracer = otel.Tracer("kycgate/kyc") }
}

// WithDuplicateThreshold overrides the maximum Hamming distance treated as a
// duplicate.
func WithDuplicateThreshold(threshold int) Option {
	return func(s *Service) { s.engine = duplicate.NewEngine(s.store, threshold) }
}

// WithOCR sets the recognition language and the per-attempt timeout.
func WithOCR(language string, timeout time.Duration) Option {
	return func(s *Service) {
		if language != "" {
			s.ocrLanguage = language
		}
		if timeout > 0 {
			s.ocrTimeout = timeout
		}
	}
}

// New builds the orchestrator. The image store may be nil, in which case
// images are kept inline on the record (graceful degradation is still applied
// when a configured store fails at runtime).
func New(st store.Store, recognizer ocr.TextRecognizer, images storage.ImageStore, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("submission store is required")
	}
	if recognizer == nil {
		return nil, errors.New("text recognizer is required")
	}
	if images == nil {
		images = storage.NewInlineStore()
	}

	svc := &Service{
		store:       st,
		recognizer:  recognizer,
		images:      images,
		engine:      duplicate.NewEngine(st, imagehash.DefaultThreshold),
		events:      events.NoopPublisher{},
		tracer:      noop.NewTracerProvider().Tracer(""),
		logger:      slog.Default(),
		ocrLanguage: "eng",
		ocrTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Submit runs the full pipeline and returns the accepted record's identity,
// or a domain error carrying the rejection reason. Only missing_field,
// wrong_document_type, and duplicate_document reach callers as rejections;
// anything else is an internal error with no document detail attached.
func (s *Service) Submit(ctx context.Context, req models.SubmitRequest) (*models.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "kyc.Submit")
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
		}
	}()

	// Step 1: all five fields are required before any side effect.
	if err := req.Validate(); err != nil {
		return nil, s.reject(ctx, req, nil, err)
	}

	userID := req.UserID
	if userID == "" {
		userID = models.AnonymousUserID
	}

	// Step 2: fingerprint both documents. They are independent, so they run
	// concurrently; both must finish before the corpus queries below.
	// Failures are swallowed to an absent fingerprint, never an error.
	var idFingerprint, addressFingerprint string
	var g errgroup.Group
	g.Go(func() error {
		idFingerprint = imagehash.FingerprintDataURI(req.IDProofImage)
		return nil
	})
	g.Go(func() error {
		addressFingerprint = imagehash.FingerprintDataURI(req.AddressProofImage)
		return nil
	})
	_ = g.Wait()

	if idFingerprint == "" {
		s.countFingerprintFailure(ctx, "id_proof")
	}
	if addressFingerprint == "" {
		s.countFingerprintFailure(ctx, "address_proof")
	}

	// Step 3: identifier extraction, only for identifier-bearing types. A
	// cross-type confusion verdict rejects immediately; every other failure
	// leaves the identifier absent and the pipeline continues.
	identifier, err := s.extractIdentifier(ctx, req)
	if err != nil {
		return nil, s.reject(ctx, req, nil, err)
	}

	// Step 4: the two duplicate layers, each an independent guard.
	hit, err := s.checkDuplicates(ctx, req.IDProofType, identifier, idFingerprint)
	if err != nil {
		return nil, s.reject(ctx, req, hit, err)
	}

	// Step 5: store images and persist. Storage failures degrade to inline
	// references; only the corpus insert can fail the submission from here.
	now := requestcontext.Now(ctx)
	record := &models.SubmissionRecord{
		RecordID:              id.NewRecordID(),
		UserID:                userID,
		IDDocumentType:        req.IDProofType,
		AddressDocumentType:   req.AddressProofType,
		IDImageRef:            s.saveImage(ctx, storage.SlotIDProof, req.IDProofImage),
		AddressImageRef:       s.saveImage(ctx, storage.SlotAddressProof, req.AddressProofImage),
		SelfieImageRef:        s.saveImage(ctx, storage.SlotSelfie, req.SelfieImage),
		IDExtractedIdentifier: identifier,
		IDPerceptualHash:      idFingerprint,
		AddressPerceptualHash: addressFingerprint,
		Status:                models.StatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.store.Insert(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Insert-time backstop for the advisory Layer 1 race: a record
			// with the same identifier committed after our lookup.
			dup := dErrors.Newf(dErrors.CodeDuplicateDocument,
				"this %s has already been submitted: duplicate detected via document number", req.IDProofType)
			return nil, s.reject(ctx, req, &duplicate.Hit{Layer: duplicate.LayerIdentifier}, dup)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist submission")
	}

	s.logger.InfoContext(ctx, "submission accepted",
		"request_id", requestcontext.RequestID(ctx),
		"record_id", record.RecordID.String(),
		"id_proof_type", string(req.IDProofType),
		"identifier_extracted", identifier != "",
		"fingerprint_generated", idFingerprint != "",
	)
	if s.metrics != nil {
		s.metrics.RecordVerdict(string(events.VerdictAccepted))
	}
	s.events.Publish(ctx, events.SubmissionEvent{
		RecordID:       record.RecordID.String(),
		UserID:         userID,
		IDDocumentType: string(req.IDProofType),
		Verdict:        events.VerdictAccepted,
		Timestamp:      now,
	})

	return &models.SubmitResult{
		RecordID:    record.RecordID.String(),
		Status:      record.Status,
		SubmittedAt: record.CreatedAt,
	}, nil
}

// GetRecord returns the read-only view of a stored record.
func (s *Service) GetRecord(ctx context.Context, recordID string) (*models.RecordView, error) {
	rid, err := id.ParseRecordID(recordID)
	if err != nil {
		return nil, err
	}
	record, err := s.store.GetByID(ctx, rid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submission record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submission record")
	}
	view := record.View()
	return &view, nil
}

// extractIdentifier runs the single OCR attempt and classification for
// identifier-bearing declared types. Only a wrong_document_type verdict is
// returned as an error; extraction failures yield ("", nil).
func (s *Service) extractIdentifier(ctx context.Context, req models.SubmitRequest) (string, error) {
	if !docid.IdentifierBearing(req.IDProofType) {
		return "", nil
	}

	ctx, span := s.tracer.Start(ctx, "kyc.ExtractIdentifier")
	defer span.End()

	raw, err := imagehash.DecodeDataURI(req.IDProofImage)
	if err != nil {
		s.countExtractionFailure(ctx, err)
		return "", nil
	}

	ocrCtx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()
	text, err := s.recognizer.RecognizeText(ocrCtx, raw, s.ocrLanguage)
	if err != nil {
		s.countExtractionFailure(ctx, err)
		return "", nil
	}

	identifier, err := docid.Classify(text, req.IDProofType)
	if err != nil {
		// Cross-type confusion short-circuits the whole submission.
		return "", err
	}
	return identifier, nil
}

func (s *Service) checkDuplicates(ctx context.Context, docType models.DocumentType, identifier, fingerprint string) (*duplicate.Hit, error) {
	ctx, span := s.tracer.Start(ctx, "kyc.CheckDuplicates")
	defer span.End()

	hit, err := s.engine.Check(ctx, docType, identifier, fingerprint)
	if err != nil && !dErrors.HasCode(err, dErrors.CodeDuplicateDocument) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "duplicate check failed")
	}
	return hit, err
}

// saveImage stores one image, degrading to the inline data URI when the
// configured store fails. Storage problems are never surfaced to callers.
func (s *Service) saveImage(ctx context.Context, slot storage.Slot, dataURI string) string {
	ref, err := s.images.Save(ctx, slot, dataURI)
	if err != nil {
		s.logger.WarnContext(ctx, "image store failed, keeping inline reference",
			"request_id", requestcontext.RequestID(ctx),
			"slot", string(slot),
			"error", err.Error(),
		)
		return dataURI
	}
	return ref
}

// reject records the terminal rejection in logs, metrics, and events, then
// hands the domain error back unchanged for the transport layer.
func (s *Service) reject(ctx context.Context, req models.SubmitRequest, hit *duplicate.Hit, err error) error {
	code := dErrors.CodeOf(err)
	s.logger.InfoContext(ctx, "submission rejected",
		"request_id", requestcontext.RequestID(ctx),
		"reason", string(code),
		"id_proof_type", string(req.IDProofType),
	)
	if s.metrics != nil {
		s.metrics.RecordVerdict(string(events.VerdictRejected))
		if hit != nil {
			s.metrics.RecordDuplicate(string(hit.Layer))
		}
	}

	event := events.SubmissionEvent{
		UserID:         req.UserID,
		IDDocumentType: string(req.IDProofType),
		Verdict:        events.VerdictRejected,
		Reason:         string(code),
		Timestamp:      requestcontext.Now(ctx),
	}
	if hit != nil {
		event.DuplicateLayer = string(hit.Layer)
		event.SimilarityPercent = hit.SimilarityPercent
	}
	s.events.Publish(ctx, event)

	return err
}

func (s *Service) countExtractionFailure(ctx context.Context, err error) {
	s.logger.WarnContext(ctx, "text extraction failed, continuing without identifier",
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
	if s.metrics != nil {
		s.metrics.ExtractionFailures.Inc()
	}
}

func (s *Service) countFingerprintFailure(ctx context.Context, slot string) {
	s.logger.WarnContext(ctx, "fingerprint generation failed, perceptual layer skipped",
		"request_id", requestcontext.RequestID(ctx),
		"slot", slot,
	)
	if s.metrics != nil {
		s.metrics.FingerprintFailures.Inc()
	}
}
