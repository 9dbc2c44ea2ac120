package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"docreview-backend/internal/shared/metrics"
	"docreview-backend/internal/shared/storage/object"
	"docreview-backend/internal/shared/telemetry"
	"docreview-backend/internal/shared/util"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
	Now   func() time.Time
}

// UploadInput describes a multipart upload.
type UploadInput struct {
	UserID       string
	DocumentType string
	FileName     string
	ContentType  string
}

// RegisterInput describes an object already PUT to storage through a presigned URL.
type RegisterInput struct {
	UserID       string
	DocumentType string
	StorageKey   string
	FileName     string
	ContentType  string
	SizeBytes    int64
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Upload saves the file to object storage and records a pending document.
// The two writes are sequential; a failed metadata write leaves the object behind.
func (s *Service) Upload(ctx context.Context, in UploadInput, r io.Reader) (Document, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.DocumentType = strings.TrimSpace(in.DocumentType)
	if in.UserID == "" {
		return Document{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if in.DocumentType == "" {
		return Document{}, fmt.Errorf("%w: documentType is required", ErrInvalidInput)
	}
	if in.FileName == "" || r == nil {
		return Document{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	now := s.now()
	key, err := util.UploadKey(now, in.FileName)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return Document{}, fmt.Errorf("read upload: %w", readErr)
	}
	mimeType := strings.TrimSpace(in.ContentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(sniff[:n])
	}

	body := io.MultiReader(bytes.NewReader(sniff[:n]), r)
	size, err := s.Store.Put(ctx, key, mimeType, body)
	if err != nil {
		return Document{}, fmt.Errorf("store file: %w", err)
	}

	doc := Document{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		DocumentType: in.DocumentType,
		URL:          s.Store.URL(key),
		StorageKey:   key,
		FileName:     in.FileName,
		MimeType:     mimeType,
		SizeBytes:    size,
		Status:       StatusPending,
		UploadedAt:   now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		telemetry.Error("documents.metadata.failed", map[string]any{
			"storage_key":   key,
			"document_type": in.DocumentType,
			"error":         err,
		})
		return Document{}, fmt.Errorf("save document: %w", err)
	}

	metrics.IncDocumentUploaded(doc.DocumentType)
	return doc, nil
}

// Register records a document for an object uploaded directly to storage.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Document, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.DocumentType = strings.TrimSpace(in.DocumentType)
	in.StorageKey = strings.TrimSpace(in.StorageKey)
	switch {
	case in.UserID == "":
		return Document{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	case in.DocumentType == "":
		return Document{}, fmt.Errorf("%w: documentType is required", ErrInvalidInput)
	case in.StorageKey == "":
		return Document{}, fmt.Errorf("%w: storageKey is required", ErrInvalidInput)
	case strings.Contains(in.StorageKey, ".."):
		return Document{}, fmt.Errorf("%w: invalid storageKey", ErrInvalidInput)
	}
	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		fileName = in.StorageKey[strings.LastIndex(in.StorageKey, "/")+1:]
	}

	doc := Document{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		DocumentType: in.DocumentType,
		URL:          s.Store.URL(in.StorageKey),
		StorageKey:   in.StorageKey,
		FileName:     fileName,
		MimeType:     strings.TrimSpace(in.ContentType),
		SizeBytes:    in.SizeBytes,
		Status:       StatusPending,
		UploadedAt:   s.now(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("save document: %w", err)
	}
	metrics.IncDocumentUploaded(doc.DocumentType)
	return doc, nil
}

// List returns every document, unfiltered.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}

// Get returns one document.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// SetStatus applies an admin decision. Any existing status may be overwritten.
func (s *Service) SetStatus(ctx context.Context, id, status string) (Document, error) {
	if !IsReviewStatus(status) {
		return Document{}, ErrInvalidStatus
	}
	if strings.TrimSpace(id) == "" {
		return Document{}, ErrNotFound
	}
	doc, err := s.Repo.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		return Document{}, err
	}
	metrics.IncDocumentReviewed(status)
	return doc, nil
}

// Approve marks a document approved.
func (s *Service) Approve(ctx context.Context, id string) (Document, error) {
	return s.SetStatus(ctx, id, StatusApproved)
}

// Reject marks a document rejected.
func (s *Service) Reject(ctx context.Context, id string) (Document, error) {
	return s.SetStatus(ctx, id, StatusRejected)
}

// Remove deletes the stored object and then the record.
func (s *Service) Remove(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.StorageKey != "" {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, object.ErrNotFound) {
			return fmt.Errorf("delete file: %w", err)
		}
	}
	return s.Repo.Delete(ctx, id)
}

// Open returns the document together with a reader over its stored bytes.
func (s *Service) Open(ctx context.Context, id string) (Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open file: %w", err)
	}
	return doc, rc, nil
}

// RecordVerification stores a DOB verification outcome.
func (s *Service) RecordVerification(ctx context.Context, id string, v Verification) (Document, error) {
	if v.VerifiedAt.IsZero() {
		v.VerifiedAt = s.now()
	}
	return s.Repo.UpdateVerification(ctx, id, v)
}
