// Package facematch declares the biometric face-matching capability. The
// model itself is an external collaborator; this package only defines the
// contract and the shipped delegation stub.
package facematch

import "context"

// MatchResult reports whether two face images depict the same person.
type MatchResult struct {
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message,omitempty"`
}

// Matcher compares a document photo against a selfie.
type Matcher interface {
	Match(ctx context.Context, documentPhoto, selfie []byte) (MatchResult, error)
}

// ClientDelegated reports that face matching runs on the capture client; the
// backend acknowledges with a fixed confidence. Stands in until a server-side
// model is wired.
type ClientDelegated struct{}

func NewClientDelegated() *ClientDelegated {
	return &ClientDelegated{}
}

func (ClientDelegated) Match(context.Context, []byte, []byte) (MatchResult, error) {
	return MatchResult{
		Match:      true,
		Confidence: 85,
		Message:    "face matching is performed on the client side",
	}, nil
}
