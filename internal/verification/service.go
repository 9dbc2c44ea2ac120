package verification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"docreview-backend/internal/applicants"
	"docreview-backend/internal/dob"
	"docreview-backend/internal/documents"
	"docreview-backend/internal/ocr"
	"docreview-backend/internal/queue"
	"docreview-backend/internal/shared/metrics"
	"docreview-backend/internal/shared/telemetry"
)

const maxDocumentBytes = 10 << 20

// ErrReferenceRequired is returned when neither a reference DOB nor a resolvable applicant is given.
var ErrReferenceRequired = errors.New("referenceDob or fullName is required")

// DocumentStore is the document surface verification needs.
type DocumentStore interface {
	Get(ctx context.Context, id string) (documents.Document, error)
	Open(ctx context.Context, id string) (documents.Document, io.ReadCloser, error)
	RecordVerification(ctx context.Context, id string, v documents.Verification) (documents.Document, error)
}

// ApplicantLookup resolves a reference DOB from an applicant record.
type ApplicantLookup interface {
	GetByName(ctx context.Context, fullName string) (applicants.Applicant, error)
}

// Service cross-checks the DOB printed on a stored document against a reference value.
type Service struct {
	Documents  DocumentStore
	Applicants ApplicantLookup
	OCR        ocr.Extractor
	Queue      queue.Client
	Now        func() time.Time
}

// Request describes one verification ask.
type Request struct {
	DocumentID   string
	ReferenceDOB string
	FullName     string
	RequestID    string
}

// Outcome reports whether the work was queued or finished inline.
type Outcome struct {
	Queued   bool
	Document documents.Document
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Request resolves the reference DOB and either enqueues the job or verifies inline.
func (s *Service) Request(ctx context.Context, req Request) (Outcome, error) {
	ref, err := s.resolveReference(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	doc, err := s.Documents.Get(ctx, req.DocumentID)
	if err != nil {
		return Outcome{}, err
	}

	if s.Queue != nil {
		msg := queue.Message{
			DocumentID:   doc.ID,
			ReferenceDOB: ref,
			RequestID:    req.RequestID,
			EnqueuedAt:   s.now().Format(time.RFC3339),
			Version:      queue.MessageVersion,
		}
		if err := s.Queue.Send(ctx, msg); err != nil {
			return Outcome{}, fmt.Errorf("enqueue verification: %w", err)
		}
		telemetry.Info("verification.enqueued", map[string]any{
			"document_id": doc.ID,
			"request_id":  req.RequestID,
		})
		return Outcome{Queued: true, Document: doc}, nil
	}

	verified, err := s.Verify(ctx, doc.ID, ref)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Document: verified}, nil
}

// Verify runs OCR over the stored document and records the extracted DOB.
func (s *Service) Verify(ctx context.Context, documentID, referenceDOB string) (documents.Document, error) {
	if s.OCR == nil {
		return documents.Document{}, errors.New("ocr extractor not configured")
	}
	start := time.Now()

	doc, body, err := s.Documents.Open(ctx, documentID)
	if err != nil {
		return documents.Document{}, err
	}
	data, err := io.ReadAll(io.LimitReader(body, maxDocumentBytes))
	body.Close()
	if err != nil {
		metrics.ObserveVerification("failed", time.Since(start))
		return documents.Document{}, fmt.Errorf("read document: %w", err)
	}

	text, err := s.OCR.ExtractText(ctx, doc.FileName, data)
	if err != nil {
		metrics.ObserveVerification("failed", time.Since(start))
		return documents.Document{}, fmt.Errorf("extract text: %w", err)
	}

	extracted := dob.Extract(text)
	match := extracted != dob.NotFound && extracted == strings.TrimSpace(referenceDOB)

	updated, err := s.Documents.RecordVerification(ctx, doc.ID, documents.Verification{
		ExtractedDOB: extracted,
		DOBMatch:     match,
		VerifiedAt:   s.now(),
	})
	if err != nil {
		metrics.ObserveVerification("failed", time.Since(start))
		return documents.Document{}, fmt.Errorf("record verification: %w", err)
	}

	outcome := outcomeLabel(extracted, match)
	metrics.ObserveVerification(outcome, time.Since(start))
	telemetry.Info("verification.completed", map[string]any{
		"document_id":   doc.ID,
		"document_type": doc.DocumentType,
		"outcome":       outcome,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return updated, nil
}

// Process handles one queued verification job.
func (s *Service) Process(ctx context.Context, msg queue.Message) error {
	_, err := s.Verify(ctx, msg.DocumentID, msg.ReferenceDOB)
	return err
}

func (s *Service) resolveReference(ctx context.Context, req Request) (string, error) {
	if ref := strings.TrimSpace(req.ReferenceDOB); ref != "" {
		return ref, nil
	}
	if strings.TrimSpace(req.FullName) == "" || s.Applicants == nil {
		return "", ErrReferenceRequired
	}
	a, err := s.Applicants.GetByName(ctx, req.FullName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(a.DOB) == "" {
		return "", fmt.Errorf("%w: applicant has no dob", ErrReferenceRequired)
	}
	return strings.TrimSpace(a.DOB), nil
}

func outcomeLabel(extracted string, match bool) string {
	switch {
	case extracted == dob.NotFound:
		return "not_found"
	case match:
		return "match"
	default:
		return "mismatch"
	}
}
