// Package intake drives an applicant's document upload session: one slot per
// document type, each uploaded once, OCR-checked for the date of birth, and
// submitted when every slot is filled.
package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"docreview-backend/internal/apiclient"
	"docreview-backend/internal/applicants"
	"docreview-backend/internal/dob"
	"docreview-backend/internal/doctypes"
	"docreview-backend/internal/documents"
	"docreview-backend/internal/ocr"
	"docreview-backend/internal/shared/telemetry"
)

var (
	ErrUnknownType     = errors.New("unknown document type")
	ErrSlotOccupied    = errors.New("document already uploaded")
	ErrSlotEmpty       = errors.New("no document uploaded")
	ErrUploadInFlight  = errors.New("upload in progress")
	ErrIncomplete      = errors.New("not every document is uploaded")
	ErrNotSubmitted    = errors.New("submit before final submit")
	ErrMissingFullName = errors.New("applicant full name is required")
)

// State is the lifecycle of one slot.
type State string

const (
	StateEmpty     State = "empty"
	StateUploading State = "uploading"
	StateUploaded  State = "uploaded"
)

const (
	StatusUploaded    = "Uploaded"
	StatusNotUploaded = "Not Uploaded"
)

// Level classifies a user-facing notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const (
	msgUploadFailed  = "Upload failed"
	msgRemoveFailed  = "Remove failed"
	msgExtractFailed = "Error extracting text. Please try again."
	msgSubmitted     = "Documents submitted temporarily for review!"
)

// Notice is a toast-style message for the user.
type Notice struct {
	Level        Level
	DocumentType string
	Message      string
}

// Progress is an upload progress event, rounded to whole percent.
type Progress struct {
	DocumentType string
	Percent      int
}

// File is a picked local file.
type File struct {
	Name string
	Data []byte
}

// Slot is a snapshot of one document slot. Valid starts true for display;
// Checked is set only once the DOB was read from the document.
type Slot struct {
	DocumentType string
	Label        string
	State        State
	DocumentID   string
	URL          string
	FileName     string
	Valid        bool
	Checked      bool
	ExtractedDOB string
}

// API is the server surface a session needs.
type API interface {
	UploadDocument(ctx context.Context, userID, documentType, fileName string, r io.Reader, progress apiclient.ProgressFunc) (documents.DocumentResponse, error)
	DeleteDocument(ctx context.Context, id string) error
	ValidateApplicant(ctx context.Context, fullName string) (applicants.ApplicantResponse, error)
}

// Config wires a session. ReferenceDOB is compared against the DOB read from each document.
type Config struct {
	UserID       string
	FullName     string
	ReferenceDOB string
	Catalog      doctypes.Catalog
	API          API
	OCR          ocr.Extractor
	OnNotice     func(Notice)
	OnProgress   func(Progress)
}

// FinalResult reports what FinalSubmit did.
type FinalResult struct {
	AllValid  bool
	Validated bool
	Invalid   []string
	Unchecked []string
	Applicant *applicants.ApplicantResponse
}

// Session holds slot state for one applicant.
type Session struct {
	cfg     Config
	order   []string
	group   errgroup.Group
	mu      sync.Mutex
	slots   map[string]*Slot
	summary map[string]string
}

// New starts a session with every slot empty and valid.
func New(cfg Config) *Session {
	if len(cfg.Catalog.Types) == 0 {
		cfg.Catalog = doctypes.Default()
	}
	s := &Session{
		cfg:   cfg,
		order: cfg.Catalog.Keys(),
		slots: make(map[string]*Slot, len(cfg.Catalog.Types)),
	}
	for _, t := range cfg.Catalog.Types {
		s.slots[t.Key] = &Slot{DocumentType: t.Key, Label: t.Label, State: StateEmpty, Valid: true}
	}
	return s
}

// Select uploads file into an empty slot and starts a background OCR check.
func (s *Session) Select(ctx context.Context, docType string, file File) error {
	s.mu.Lock()
	slot, ok := s.slots[docType]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownType, docType)
	}
	if slot.State != StateEmpty {
		label := slot.Label
		s.mu.Unlock()
		s.notify(LevelInfo, docType, fmt.Sprintf("You have already uploaded a %s.", label))
		return ErrSlotOccupied
	}
	slot.State = StateUploading
	slot.FileName = file.Name
	label := slot.Label
	s.mu.Unlock()

	doc, err := s.cfg.API.UploadDocument(ctx, s.cfg.UserID, docType, file.Name, bytes.NewReader(file.Data), s.progressFunc(docType))
	if err != nil {
		s.mu.Lock()
		s.reset(slot)
		s.mu.Unlock()
		telemetry.Error("intake.upload.failed", map[string]any{"document_type": docType, "error": err})
		s.notify(LevelError, docType, msgUploadFailed)
		return fmt.Errorf("upload %s: %w", docType, err)
	}

	s.mu.Lock()
	slot.State = StateUploaded
	slot.DocumentID = doc.ID
	slot.URL = doc.URL
	s.mu.Unlock()
	s.notify(LevelSuccess, docType, label+" uploaded successfully!")

	checkCtx := context.WithoutCancel(ctx)
	s.group.Go(func() error {
		s.check(checkCtx, docType, doc.ID, file)
		return nil
	})
	return nil
}

// Wait blocks until every started OCR check has finished.
func (s *Session) Wait() {
	_ = s.group.Wait()
}

func (s *Session) check(ctx context.Context, docType, documentID string, file File) {
	if s.cfg.OCR == nil {
		return
	}
	text, err := s.cfg.OCR.ExtractText(ctx, file.Name, file.Data)
	if err != nil {
		telemetry.Warn("intake.ocr.failed", map[string]any{"document_type": docType, "document_id": documentID, "error": err})
		s.notify(LevelError, docType, msgExtractFailed)
		return
	}
	extracted := dob.Extract(text)
	valid := extracted != dob.NotFound && extracted == s.cfg.ReferenceDOB

	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.slots[docType]
	if slot.State != StateUploaded || slot.DocumentID != documentID {
		return
	}
	slot.Valid = valid
	slot.Checked = true
	slot.ExtractedDOB = extracted
}

// Remove deletes the uploaded document and frees its slot.
func (s *Session) Remove(ctx context.Context, docType string) error {
	s.mu.Lock()
	slot, ok := s.slots[docType]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownType, docType)
	}
	switch slot.State {
	case StateEmpty:
		s.mu.Unlock()
		return ErrSlotEmpty
	case StateUploading:
		s.mu.Unlock()
		return ErrUploadInFlight
	}
	id, label := slot.DocumentID, slot.Label
	s.mu.Unlock()

	if err := s.cfg.API.DeleteDocument(ctx, id); err != nil && !errors.Is(err, apiclient.ErrNotFound) {
		s.notify(LevelError, docType, msgRemoveFailed)
		return fmt.Errorf("remove %s: %w", docType, err)
	}

	s.mu.Lock()
	if slot.DocumentID == id {
		s.reset(slot)
		s.summary = nil
	}
	s.mu.Unlock()
	s.notify(LevelSuccess, docType, label+" removed successfully!")
	return nil
}

// Slots returns a snapshot of every slot in catalog order.
func (s *Session) Slots() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Slot, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.slots[key])
	}
	return out
}

// Slot returns a snapshot of one slot.
func (s *Session) Slot(docType string) (Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[docType]
	if !ok {
		return Slot{}, false
	}
	return *slot, true
}

// CanSubmit reports whether every slot holds an uploaded document.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.slots {
		if slot.State != StateUploaded {
			return false
		}
	}
	return true
}

// Submit records an Uploaded/Not Uploaded summary per slot. Nothing is sent to the server.
func (s *Session) Submit() (map[string]string, error) {
	if !s.CanSubmit() {
		return nil, ErrIncomplete
	}
	s.mu.Lock()
	summary := make(map[string]string, len(s.slots))
	for key, slot := range s.slots {
		if slot.State == StateUploaded {
			summary[key] = StatusUploaded
		} else {
			summary[key] = StatusNotUploaded
		}
	}
	s.summary = summary
	out := copySummary(summary)
	s.mu.Unlock()
	s.notify(LevelSuccess, "", msgSubmitted)
	return out, nil
}

// Summary returns the last Submit snapshot, or nil.
func (s *Session) Summary() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySummary(s.summary)
}

// FinalSubmit waits for pending OCR checks and, when every document was read and
// matched the reference DOB, marks the applicant record valid.
func (s *Session) FinalSubmit(ctx context.Context) (FinalResult, error) {
	s.mu.Lock()
	submitted := s.summary != nil
	s.mu.Unlock()
	if !submitted {
		return FinalResult{}, ErrNotSubmitted
	}
	s.Wait()
	if !s.CanSubmit() {
		return FinalResult{}, ErrIncomplete
	}

	var res FinalResult
	s.mu.Lock()
	for _, key := range s.order {
		slot := s.slots[key]
		switch {
		case !slot.Checked:
			res.Unchecked = append(res.Unchecked, key)
		case !slot.Valid:
			res.Invalid = append(res.Invalid, key)
		}
	}
	s.mu.Unlock()
	res.AllValid = len(res.Invalid) == 0 && len(res.Unchecked) == 0
	if !res.AllValid {
		return res, nil
	}
	if s.cfg.FullName == "" {
		return res, ErrMissingFullName
	}

	a, err := s.cfg.API.ValidateApplicant(ctx, s.cfg.FullName)
	if err != nil {
		return res, fmt.Errorf("validate applicant: %w", err)
	}
	res.Validated = true
	res.Applicant = &a
	return res, nil
}

func (s *Session) reset(slot *Slot) {
	slot.State = StateEmpty
	slot.DocumentID = ""
	slot.URL = ""
	slot.FileName = ""
	slot.ExtractedDOB = ""
	slot.Valid = true
	slot.Checked = false
}

func (s *Session) progressFunc(docType string) apiclient.ProgressFunc {
	if s.cfg.OnProgress == nil {
		return nil
	}
	last := -1
	return func(sent, total int64) {
		if total <= 0 {
			return
		}
		pct := int(math.Round(float64(sent) / float64(total) * 100))
		if pct == last {
			return
		}
		last = pct
		s.cfg.OnProgress(Progress{DocumentType: docType, Percent: pct})
	}
}

func (s *Session) notify(level Level, docType, msg string) {
	if s.cfg.OnNotice != nil {
		s.cfg.OnNotice(Notice{Level: level, DocumentType: docType, Message: msg})
	}
}

func copySummary(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
