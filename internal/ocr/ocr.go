// Package ocr defines the optical text extraction capability consumed by the
// intake pipeline. The pipeline makes exactly one recognition attempt per
// document per submission: no retries, bounded by the caller's context, and a
// failure is non-fatal (the identifier layer is simply skipped).
package ocr

import "context"

//go:generate mockgen -source=ocr.go -destination=../../mocks/ocr/mock_recognizer.go -package=ocrmock

// TextRecognizer is the minimal OCR capability: given an encoded still image,
// return the raw recognized text.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, imageBytes []byte, language string) (string, error)
}

// RecognizerFunc adapts a plain function to the TextRecognizer interface.
type RecognizerFunc func(ctx context.Context, imageBytes []byte, language string) (string, error)

func (f RecognizerFunc) RecognizeText(ctx context.Context, imageBytes []byte, language string) (string, error) {
	return f(ctx, imageBytes, language)
}
