// Package duplicate implements the two-layer duplicate resolution procedure
// against the submission corpus.
package duplicate

import (
	"context"
	"errors"
	"fmt"

	"kycgate/internal/imagehash"
	"kycgate/internal/kyc/models"
	"kycgate/internal/kyc/store"
	dErrors "kycgate/pkg/domain-errors"
	"kycgate/pkg/platform/sentinel"
)

// Layer names the duplicate-detection pass that produced a hit.
type Layer string

const (
	LayerIdentifier Layer = "identifier"
	LayerPerceptual Layer = "perceptual"
)

// Hit describes a duplicate verdict for reporting and metrics.
type Hit struct {
	Layer             Layer
	MatchedIdentifier string
	Distance          int
	SimilarityPercent float64
}

// Engine runs the layered duplicate checks. It only reads from the corpus;
// persistence stays with the orchestrator.
type Engine struct {
	store     store.Store
	threshold int
}

// NewEngine builds an engine with the given similarity threshold (maximum
// Hamming distance treated as a duplicate).
func NewEngine(s store.Store, threshold int) *Engine {
	if threshold <= 0 {
		threshold = imagehash.DefaultThreshold
	}
	return &Engine{store: s, threshold: threshold}
}

// Check applies both layers as independent guard clauses, in order. Either
// alone is sufficient to reject; each is skipped only when its input is
// absent. A hit returns (*Hit, duplicate_document error); a clean pass
// returns (nil, nil).
//
// The lookups are advisory: two submissions racing with the same identifier
// can both pass before either insert commits. The store's insert-time
// conflict detection is the backstop.
func (e *Engine) Check(ctx context.Context, docType models.DocumentType, identifier, fingerprint string) (*Hit, error) {
	// Layer 1: exact identifier match. Runs only when OCR extraction
	// produced an identifier.
	if identifier != "" {
		existing, err := e.store.FindByTypeAndIdentifier(ctx, docType, identifier)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("identifier lookup: %w", err)
		}
		if existing != nil {
			return &Hit{Layer: LayerIdentifier, MatchedIdentifier: identifier},
				dErrors.Newf(dErrors.CodeDuplicateDocument,
					"this %s has already been submitted: duplicate detected via document number", docType)
		}
	}

	// Layer 2: perceptual similarity. Runs only when a fingerprint was
	// generated, and regardless of whether Layer 1 ran.
	if fingerprint != "" {
		corpus, err := e.store.ListFingerprintsByType(ctx, docType)
		if err != nil {
			return nil, fmt.Errorf("fingerprint lookup: %w", err)
		}
		match := imagehash.FindNearestMatch(corpus, fingerprint, e.threshold)
		if match.IsMatch {
			return &Hit{
					Layer:             LayerPerceptual,
					Distance:          match.Distance,
					SimilarityPercent: match.SimilarityPercent,
				},
				dErrors.Newf(dErrors.CodeDuplicateDocument,
					"this %s appears to be a duplicate: a visually similar document has already been submitted (%.1f%% match)",
					docType, match.SimilarityPercent)
		}
	}

	return nil, nil
}
