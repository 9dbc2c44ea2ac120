package applicants

import "context"

// Repo defines persistence operations for applicant records.
type Repo interface {
	Create(ctx context.Context, a Applicant) error
	List(ctx context.Context) ([]Applicant, error)
	// FindFirstByName returns the earliest created record with fullName.
	FindFirstByName(ctx context.Context, fullName string) (Applicant, error)
	// ValidateFirstByName sets IsValid on the record FindFirstByName would return.
	ValidateFirstByName(ctx context.Context, fullName string) (Applicant, error)
}
