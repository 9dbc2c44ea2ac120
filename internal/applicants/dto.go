package applicants

import "time"

// ApplicantResponse is the outward-facing representation of an applicant.
type ApplicantResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	DOB           string    `json:"dob"`
	Gender        string    `json:"gender"`
	ImageURL      string    `json:"imageUrl"`
	ExtractedInfo any       `json:"extractedInfo,omitempty"`
	IsValid       bool      `json:"isValid"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DataResponse wraps an applicant with a status message.
type DataResponse struct {
	Message string            `json:"message"`
	Data    ApplicantResponse `json:"data"`
}

type createRequest struct {
	FullName      string `json:"fullName"`
	DOB           string `json:"dob"`
	Gender        string `json:"gender"`
	ImageURL      string `json:"imageUrl"`
	ExtractedInfo any    `json:"extractedInfo"`
}

// ToResponse converts an Applicant for JSON output.
func ToResponse(a Applicant) ApplicantResponse {
	return ApplicantResponse{
		ID:            a.ID,
		FullName:      a.FullName,
		DOB:           a.DOB,
		Gender:        a.Gender,
		ImageURL:      a.ImageURL,
		ExtractedInfo: a.ExtractedInfo,
		IsValid:       a.IsValid,
		CreatedAt:     a.CreatedAt,
	}
}
