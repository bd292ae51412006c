package imagehash

// Distance returns the Hamming distance between two fingerprints of equal
// length: the count of differing hex positions. Absent fingerprints or a
// length mismatch yield MaxDistance, never an error.
func Distance(a, b string) int {
	if a == "" || b == "" || len(a) != len(b) {
		return MaxDistance
	}
	distance := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance
}

// SimilarityPercent converts a distance to a percentage for reporting. The
// match decision always uses the raw distance against a threshold.
func SimilarityPercent(distance int) float64 {
	if distance > HashLength {
		return 0
	}
	return float64(HashLength-distance) / float64(HashLength) * 100
}

// Match is the result of scanning a fingerprint corpus.
type Match struct {
	IsMatch            bool
	MatchedFingerprint string
	Distance           int
	SimilarityPercent  float64
}

// FindNearestMatch scans corpus linearly and returns the first fingerprint
// within threshold (inclusive). Corpus ordering is not guaranteed, so
// tie-breaking among equally close entries is whichever comes first.
func FindNearestMatch(corpus []string, fingerprint string, threshold int) Match {
	for _, existing := range corpus {
		distance := Distance(existing, fingerprint)
		if distance <= threshold {
			return Match{
				IsMatch:            true,
				MatchedFingerprint: existing,
				Distance:           distance,
				SimilarityPercent:  SimilarityPercent(distance),
			}
		}
	}
	return Match{IsMatch: false}
}
