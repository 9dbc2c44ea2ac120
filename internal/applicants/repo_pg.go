package applicants

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicantColumns = `id, full_name, dob, gender, image_url, extracted_info, is_valid, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Create(ctx context.Context, a Applicant) error {
	const query = `
INSERT INTO applicants (
    id,
    full_name,
    dob,
    gender,
    image_url,
    extracted_info,
    is_valid,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	info, err := marshalJSONB(a.ExtractedInfo)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, a.ID, a.FullName, a.DOB, a.Gender, a.ImageURL, info, a.IsValid, a.CreatedAt)
	return err
}

func (r *PGRepo) List(ctx context.Context) ([]Applicant, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+applicantColumns+` FROM applicants ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Applicant{}
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) FindFirstByName(ctx context.Context, fullName string) (Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE full_name = $1 ORDER BY created_at ASC, id ASC LIMIT 1`
	a, err := scanApplicant(r.DB.QueryRowContext(ctx, query, fullName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Applicant{}, ErrNotFound
		}
		return Applicant{}, err
	}
	return a, nil
}

func (r *PGRepo) ValidateFirstByName(ctx context.Context, fullName string) (Applicant, error) {
	query := `
UPDATE applicants
SET is_valid = TRUE
WHERE id = (
    SELECT id FROM applicants WHERE full_name = $1 ORDER BY created_at ASC, id ASC LIMIT 1
)
RETURNING ` + applicantColumns
	a, err := scanApplicant(r.DB.QueryRowContext(ctx, query, fullName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Applicant{}, ErrNotFound
		}
		return Applicant{}, err
	}
	return a, nil
}

func scanApplicant(row rowScanner) (Applicant, error) {
	var a Applicant
	var info []byte
	if err := row.Scan(&a.ID, &a.FullName, &a.DOB, &a.Gender, &a.ImageURL, &info, &a.IsValid, &a.CreatedAt); err != nil {
		return Applicant{}, err
	}
	if len(info) > 0 {
		if err := json.Unmarshal(info, &a.ExtractedInfo); err != nil {
			return Applicant{}, fmt.Errorf("decode extracted_info: %w", err)
		}
	}
	return a, nil
}

func marshalJSONB(value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode extracted_info: %w", err)
	}
	return data, nil
}

var _ Repo = (*PGRepo)(nil)
