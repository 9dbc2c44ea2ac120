package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	DocumentType string     `json:"documentType"`
	URL          string     `json:"url"`
	StorageKey   string     `json:"storageKey,omitempty"`
	FileName     string     `json:"fileName,omitempty"`
	MimeType     string     `json:"mimeType,omitempty"`
	SizeBytes    int64      `json:"sizeBytes"`
	Status       string     `json:"status"`
	UploadedAt   time.Time  `json:"uploadedAt"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	ExtractedDOB string     `json:"extractedDob,omitempty"`
	DOBMatch     *bool      `json:"dobMatch,omitempty"`
	VerifiedAt   *time.Time `json:"verifiedAt,omitempty"`
}

// UploadResponse is returned by the upload and register endpoints.
type UploadResponse struct {
	Message  string           `json:"message"`
	Document DocumentResponse `json:"document"`
}

type registerRequest struct {
	UserID       string `json:"userId"`
	DocumentType string `json:"documentType"`
	StorageKey   string `json:"storageKey"`
	FileName     string `json:"fileName"`
	ContentType  string `json:"contentType"`
	SizeBytes    int64  `json:"sizeBytes"`
}

// ToResponse converts a Document for JSON output.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:           doc.ID,
		UserID:       doc.UserID,
		DocumentType: doc.DocumentType,
		URL:          doc.URL,
		StorageKey:   doc.StorageKey,
		FileName:     doc.FileName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		Status:       doc.Status,
		UploadedAt:   doc.UploadedAt,
		ReviewedAt:   doc.ReviewedAt,
		ExtractedDOB: doc.ExtractedDOB,
		DOBMatch:     doc.DOBMatch,
		VerifiedAt:   doc.VerifiedAt,
	}
}

func toResponses(docs []Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, ToResponse(doc))
	}
	return out
}
