package documents

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Document is one uploaded file awaiting or past admin review.
type Document struct {
	ID           string
	UserID       string
	DocumentType string
	URL          string
	StorageKey   string
	FileName     string
	MimeType     string
	SizeBytes    int64
	Status       string
	UploadedAt   time.Time
	ReviewedAt   *time.Time

	// Set by server-side DOB verification.
	ExtractedDOB string
	DOBMatch     *bool
	VerifiedAt   *time.Time
}

// Verification is the outcome of an OCR DOB check against a reference value.
type Verification struct {
	ExtractedDOB string
	DOBMatch     bool
	VerifiedAt   time.Time
}

// IsReviewStatus reports whether status is a valid admin decision.
func IsReviewStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
