package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer runs OCR through a local Tesseract installation. Each
// recognition uses a fresh client: gosseract clients are not safe for
// concurrent use and submissions may run in parallel.
type TesseractRecognizer struct{}

// NewTesseractRecognizer returns a Tesseract-backed recognizer.
func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{}
}

type recognition struct {
	text string
	err  error
}

// RecognizeText performs a single OCR pass over the image. The Tesseract call
// itself cannot be interrupted, so it runs in a goroutine and the result is
// discarded if ctx expires first; expiry surfaces as the context error, which
// the pipeline treats like any other extractor failure.
func (r *TesseractRecognizer) RecognizeText(ctx context.Context, imageBytes []byte, language string) (string, error) {
	if len(imageBytes) == 0 {
		return "", fmt.Errorf("empty image")
	}
	if language == "" {
		language = "eng"
	}

	done := make(chan recognition, 1)
	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(language); err != nil {
			done <- recognition{err: fmt.Errorf("set language %q: %w", language, err)}
			return
		}
		if err := client.SetImageFromBytes(imageBytes); err != nil {
			done <- recognition{err: fmt.Errorf("set image: %w", err)}
			return
		}
		text, err := client.Text()
		if err != nil {
			done <- recognition{err: fmt.Errorf("recognize text: %w", err)}
			return
		}
		done <- recognition{text: text}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.text, res.err
	}
}
