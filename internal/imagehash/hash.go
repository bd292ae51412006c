// Package imagehash produces perceptual fingerprints of document images and
// scores their similarity. Fingerprints summarize low-frequency visual
// structure, so re-encoded or recompressed copies of the same document land
// close together while different documents land far apart.
package imagehash

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	"github.com/corona10/goimagehash"
)

const (
	// HashLength is the fingerprint length in hex characters. A 16x16
	// perception hash yields 256 bits, rendered as 64 hex chars.
	HashLength = 64

	// MaxDistance is the "infinite" distance sentinel returned for absent or
	// malformed fingerprints.
	MaxDistance = 256

	// DefaultThreshold is the maximum Hamming distance treated as a
	// duplicate. Empirically, distance <= 10 corresponds to roughly 85%+
	// visual similarity.
	DefaultThreshold = 10
)

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// Fingerprint computes the perceptual fingerprint of an encoded still image.
func Fingerprint(imageBytes []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	hash, err := goimagehash.ExtPerceptionHash(img, 16, 16)
	if err != nil {
		return "", fmt.Errorf("perception hash: %w", err)
	}

	var b strings.Builder
	for _, word := range hash.GetHash() {
		fmt.Fprintf(&b, "%016x", word)
	}
	return b.String(), nil
}

// FingerprintDataURI fingerprints a data-URI-encoded image. Any failure
// (bad encoding, undecodable image) yields the empty string: callers treat an
// absent fingerprint as "fingerprint layer skipped", never as an error.
func FingerprintDataURI(dataURI string) string {
	raw, err := DecodeDataURI(dataURI)
	if err != nil {
		return ""
	}
	fp, err := Fingerprint(raw)
	if err != nil {
		return ""
	}
	return fp
}

// DecodeDataURI returns the raw bytes of a base64 data URI. A bare base64
// payload without the data: prefix is accepted too.
func DecodeDataURI(s string) ([]byte, error) {
	payload := dataURIPrefix.ReplaceAllString(s, "")
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return raw, nil
}
