package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// invalidTextRepresentation is raised when an id is not a valid UUID.
const invalidTextRepresentation = "22P02"

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, document_type, url, storage_key, file_name, mime_type, size_bytes, status, uploaded_at, reviewed_at, extracted_dob, dob_match, verified_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    document_type,
    url,
    storage_key,
    file_name,
    mime_type,
    size_bytes,
    status,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	status := doc.Status
	if status == "" {
		status = StatusPending
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.DocumentType,
		doc.URL,
		doc.StorageKey,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		status,
		doc.UploadedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return Document{}, lookupError(err)
	}
	return doc, nil
}

// List returns all documents ordered by upload time.
func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY uploaded_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateStatus sets status and reviewed_at and returns the updated row.
func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string, reviewedAt time.Time) (Document, error) {
	query := `
UPDATE documents
SET status = $1, reviewed_at = $2
WHERE id = $3
RETURNING ` + documentColumns
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, status, reviewedAt, id))
	if err != nil {
		return Document{}, lookupError(err)
	}
	return doc, nil
}

// UpdateVerification stores the DOB verification outcome.
func (r *PGRepo) UpdateVerification(ctx context.Context, id string, v Verification) (Document, error) {
	query := `
UPDATE documents
SET extracted_dob = $1, dob_match = $2, verified_at = $3
WHERE id = $4
RETURNING ` + documentColumns
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, v.ExtractedDOB, v.DOBMatch, v.VerifiedAt, id))
	if err != nil {
		return Document{}, lookupError(err)
	}
	return doc, nil
}

// Delete removes a document row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return lookupError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// lookupError maps a missing row or a malformed id to ErrNotFound.
func lookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return ErrNotFound
	}
	return err
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var reviewedAt sql.NullTime
	var extractedDOB sql.NullString
	var dobMatch sql.NullBool
	var verifiedAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.DocumentType,
		&doc.URL,
		&doc.StorageKey,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.Status,
		&doc.UploadedAt,
		&reviewedAt,
		&extractedDOB,
		&dobMatch,
		&verifiedAt,
	); err != nil {
		return Document{}, err
	}
	if reviewedAt.Valid {
		doc.ReviewedAt = &reviewedAt.Time
	}
	if extractedDOB.Valid {
		doc.ExtractedDOB = extractedDOB.String
	}
	if dobMatch.Valid {
		doc.DOBMatch = &dobMatch.Bool
	}
	if verifiedAt.Valid {
		doc.VerifiedAt = &verifiedAt.Time
	}
	return doc, nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
