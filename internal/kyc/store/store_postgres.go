package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"kycgate/internal/kyc/models"
	id "kycgate/pkg/domain"
	"kycgate/pkg/platform/sentinel"
)

// Schema creates the submissions table. The partial unique index narrows the
// Layer 1 race window: of two racing submissions with the same extracted
// identifier, at most one insert commits, and the loser surfaces as a
// duplicate rather than a second record.
const Schema = `
CREATE TABLE IF NOT EXISTS kyc_submissions (
	record_id                    UUID PRIMARY KEY,
	user_id                      TEXT NOT NULL,
	id_document_type             TEXT NOT NULL,
	address_document_type        TEXT NOT NULL,
	id_image_ref                 TEXT NOT NULL,
	address_image_ref            TEXT NOT NULL,
	selfie_image_ref             TEXT NOT NULL,
	id_extracted_identifier      TEXT,
	address_extracted_identifier TEXT,
	id_perceptual_hash           TEXT,
	address_perceptual_hash      TEXT,
	status                       TEXT NOT NULL DEFAULT 'pending',
	created_at                   TIMESTAMPTZ NOT NULL,
	updated_at                   TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS kyc_submissions_type_identifier_idx
	ON kyc_submissions (id_document_type, id_extracted_identifier)
	WHERE id_extracted_identifier IS NOT NULL AND status <> 'rejected';

CREATE INDEX IF NOT EXISTS kyc_submissions_type_hash_idx
	ON kyc_submissions (id_document_type)
	WHERE id_perceptual_hash IS NOT NULL;
`

// PostgresStore persists submission records in PostgreSQL. Pure I/O: all
// duplicate policy lives in the duplicate engine and the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed submission store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects to postgres via the pgx stdlib driver and ensures the schema
// exists.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) Insert(ctx context.Context, record *models.SubmissionRecord) error {
	query := `
		INSERT INTO kyc_submissions (
			record_id, user_id, id_document_type, address_document_type,
			id_image_ref, address_image_ref, selfie_image_ref,
			id_extracted_identifier, address_extracted_identifier,
			id_perceptual_hash, address_perceptual_hash,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.RecordID.String(),
		record.UserID,
		string(record.IDDocumentType),
		string(record.AddressDocumentType),
		record.IDImageRef,
		record.AddressImageRef,
		record.SelfieImageRef,
		nullable(record.IDExtractedIdentifier),
		nullable(record.AddressExtractedIdentifier),
		nullable(record.IDPerceptualHash),
		nullable(record.AddressPerceptualHash),
		string(record.Status),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, recordID id.RecordID) (*models.SubmissionRecord, error) {
	query := selectColumns + ` WHERE record_id = $1`
	record, err := scanSubmission(s.db.QueryRowContext(ctx, query, recordID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) FindByTypeAndIdentifier(ctx context.Context, docType models.DocumentType, identifier string) (*models.SubmissionRecord, error) {
	query := selectColumns + `
		WHERE id_document_type = $1
		  AND id_extracted_identifier = $2
		  AND status <> 'rejected'
		LIMIT 1
	`
	record, err := scanSubmission(s.db.QueryRowContext(ctx, query, string(docType), identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find submission by identifier: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListFingerprintsByType(ctx context.Context, docType models.DocumentType) ([]string, error) {
	query := `
		SELECT id_perceptual_hash
		FROM kyc_submissions
		WHERE id_document_type = $1
		  AND id_perceptual_hash IS NOT NULL
		  AND status <> 'rejected'
	`
	rows, err := s.db.QueryContext(ctx, query, string(docType))
	if err != nil {
		return nil, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	var fingerprints []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		fingerprints = append(fingerprints, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return fingerprints, nil
}

const selectColumns = `
	SELECT record_id, user_id, id_document_type, address_document_type,
	       id_image_ref, address_image_ref, selfie_image_ref,
	       id_extracted_identifier, address_extracted_identifier,
	       id_perceptual_hash, address_perceptual_hash,
	       status, created_at, updated_at
	FROM kyc_submissions
`

func scanSubmission(row *sql.Row) (*models.SubmissionRecord, error) {
	var (
		record             models.SubmissionRecord
		recordID           string
		docType, addrType  string
		status             string
		idIdent, addrIdent sql.NullString
		idHash, addrHash   sql.NullString
	)
	err := row.Scan(
		&recordID,
		&record.UserID,
		&docType,
		&addrType,
		&record.IDImageRef,
		&record.AddressImageRef,
		&record.SelfieImageRef,
		&idIdent,
		&addrIdent,
		&idHash,
		&addrHash,
		&status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(recordID)
	if err != nil {
		return nil, fmt.Errorf("parse record id: %w", err)
	}
	record.RecordID = id.RecordID(parsed)
	record.IDDocumentType = models.DocumentType(docType)
	record.AddressDocumentType = models.DocumentType(addrType)
	record.Status = models.Status(status)
	record.IDExtractedIdentifier = idIdent.String
	record.AddressExtractedIdentifier = addrIdent.String
	record.IDPerceptualHash = idHash.String
	record.AddressPerceptualHash = addrHash.String
	return &record, nil
}

// nullable maps the domain's empty-string absence to SQL NULL so absent
// identifiers and fingerprints are never stored as empty strings.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
