// Package events publishes submission verdicts for downstream consumers
// (review tooling, fraud analytics). Publishing is best-effort: a failed
// produce is logged and dropped, never surfaced to the submitter.
package events

import (
	"context"
	"time"
)

// Verdict is the terminal outcome of a submission attempt.
type Verdict string

const (
	VerdictAccepted Verdict = "accepted"
	VerdictRejected Verdict = "rejected"
)

// SubmissionEvent captures one terminal pipeline outcome.
type SubmissionEvent struct {
	RecordID          string    `json:"recordId,omitempty"`
	UserID            string    `json:"userId"`
	IDDocumentType    string    `json:"idDocumentType"`
	Verdict           Verdict   `json:"verdict"`
	Reason            string    `json:"reason,omitempty"`
	DuplicateLayer    string    `json:"duplicateLayer,omitempty"`
	SimilarityPercent float64   `json:"similarityPercent,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// Publisher emits submission events.
type Publisher interface {
	Publish(ctx context.Context, event SubmissionEvent)
}

// NoopPublisher discards events; the default when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, SubmissionEvent) {}
