package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "kycgate/pkg/platform/strings"
)

// Server captures process-level configuration. Values are read once at
// startup and injected into constructors; nothing reads ambient env at call
// time.
type Server struct {
	Addr string

	// DatabaseURL selects the postgres-backed submission store. Empty means
	// the in-memory store (useful for local development and tests).
	DatabaseURL string

	// RedisURL enables the submit-endpoint rate limiter. Empty disables it.
	RedisURL string

	// KafkaBrokers/KafkaTopic enable verdict event publishing. Empty brokers
	// disable it.
	KafkaBrokers []string
	KafkaTopic   string

	// ImageStoreRoot selects the disk image store. Empty means images are
	// kept inline as data URIs on the record.
	ImageStoreRoot string

	OCRLanguage string
	OCRTimeout  time.Duration

	// DuplicateThreshold is the maximum Hamming distance for the perceptual
	// similarity duplicate check.
	DuplicateThreshold int

	// SubmitRatePerMinute bounds submissions per client IP when the rate
	// limiter is enabled.
	SubmitRatePerMinute int
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                envOr("KYC_GATE_ADDR", ":8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		KafkaTopic:          envOr("KAFKA_TOPIC", "kyc.submissions"),
		ImageStoreRoot:      os.Getenv("IMAGE_STORE_ROOT"),
		OCRLanguage:         envOr("OCR_LANGUAGE", "eng"),
		OCRTimeout:          envDurationOr("OCR_TIMEOUT", 30*time.Second),
		DuplicateThreshold:  envIntOr("DUPLICATE_THRESHOLD", 10),
		SubmitRatePerMinute: envIntOr("SUBMIT_RATE_PER_MINUTE", 10),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = pstrings.DedupeAndTrim(strings.Split(brokers, ","))
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
