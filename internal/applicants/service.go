package applicants

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docreview-backend/internal/shared/metrics"
)

// Service contains business logic for applicant records.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// CreateInput carries the fields of a new applicant record.
type CreateInput struct {
	FullName      string
	DOB           string
	Gender        string
	ImageURL      string
	ExtractedInfo any
}

// Create persists a new record. Duplicate names are allowed.
func (s *Service) Create(ctx context.Context, in CreateInput) (Applicant, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return Applicant{}, fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	a := Applicant{
		ID:            uuid.NewString(),
		FullName:      in.FullName,
		DOB:           in.DOB,
		Gender:        in.Gender,
		ImageURL:      in.ImageURL,
		ExtractedInfo: in.ExtractedInfo,
		CreatedAt:     now,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return Applicant{}, fmt.Errorf("save applicant: %w", err)
	}
	return a, nil
}

// List returns all applicant records.
func (s *Service) List(ctx context.Context) ([]Applicant, error) {
	return s.Repo.List(ctx)
}

// GetByName returns the first record matching fullName exactly.
func (s *Service) GetByName(ctx context.Context, fullName string) (Applicant, error) {
	if fullName == "" {
		return Applicant{}, ErrNotFound
	}
	return s.Repo.FindFirstByName(ctx, fullName)
}

// ValidateByName sets IsValid on the first record matching fullName. Idempotent.
func (s *Service) ValidateByName(ctx context.Context, fullName string) (Applicant, error) {
	if fullName == "" {
		return Applicant{}, ErrNotFound
	}
	a, err := s.Repo.ValidateFirstByName(ctx, fullName)
	if err != nil {
		return Applicant{}, err
	}
	metrics.IncApplicantValidated()
	return a, nil
}
