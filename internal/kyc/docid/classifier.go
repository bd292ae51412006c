// Package docid extracts machine-checkable identifiers from OCR text and
// detects cross-type document confusion.
package docid

import (
	"regexp"

	"kycgate/internal/kyc/models"
	dErrors "kycgate/pkg/domain-errors"
)

// Identifier patterns. PAN: 5 letters, 4 digits, 1 letter. Aadhaar: exactly
// 12 contiguous digits, word-bounded.
var (
	panPattern     = regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`)
	aadhaarPattern = regexp.MustCompile(`\b\d{12}\b`)
)

// IdentifierBearing reports whether the document type is expected to carry a
// machine-checkable identifier. Only these types go through OCR extraction
// and the Layer 1 duplicate check.
func IdentifierBearing(docType models.DocumentType) bool {
	return docType == models.DocumentTypePANCard || docType == models.DocumentTypeAadhaarCard
}

// Classify inspects OCR text against the declared document type.
//
// The cross-type confusion check runs first and takes priority over
// extraction: a declared PAN whose text matches only the Aadhaar pattern (and
// vice versa) fails with a wrong_document_type error that short-circuits the
// whole submission.
//
// With no confusion detected, Classify returns the first identifier matching
// the declared type's pattern, or "" when the pattern does not match at all —
// extraction is inconclusive (masked or redacted scans are common) and the
// submission proceeds without an identifier.
func Classify(text string, declared models.DocumentType) (string, error) {
	panMatch := panPattern.FindString(text)
	aadhaarMatch := aadhaarPattern.FindString(text)

	switch declared {
	case models.DocumentTypePANCard:
		if aadhaarMatch != "" && panMatch == "" {
			return "", dErrors.Newf(dErrors.CodeWrongDocumentType,
				"wrong document type detected: you selected %s but uploaded %s, please upload the correct document",
				models.DocumentTypePANCard, models.DocumentTypeAadhaarCard)
		}
		return panMatch, nil
	case models.DocumentTypeAadhaarCard:
		if panMatch != "" && aadhaarMatch == "" {
			return "", dErrors.Newf(dErrors.CodeWrongDocumentType,
				"wrong document type detected: you selected %s but uploaded %s, please upload the correct document",
				models.DocumentTypeAadhaarCard, models.DocumentTypePANCard)
		}
		return aadhaarMatch, nil
	}

	// Non identifier-bearing types never reach classification.
	return "", nil
}
