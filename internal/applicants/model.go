package applicants

import "time"

// Applicant is the profile an applicant submits before uploading documents.
// FullName is not unique; lookups resolve to the earliest created record.
type Applicant struct {
	ID            string
	FullName      string
	DOB           string
	Gender        string
	ImageURL      string
	ExtractedInfo any
	IsValid       bool
	CreatedAt     time.Time
}
