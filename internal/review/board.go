// Package review is the admin side of the workflow: list pending documents and
// approve or reject them.
package review

import (
	"context"
	"fmt"
	"sync"

	"docreview-backend/internal/documents"
	"docreview-backend/internal/shared/telemetry"
)

// API is the server surface the board needs.
type API interface {
	ListDocuments(ctx context.Context) ([]documents.DocumentResponse, error)
	ApproveDocument(ctx context.Context, id string) (documents.DocumentResponse, error)
	RejectDocument(ctx context.Context, id string) (documents.DocumentResponse, error)
}

// Result reports one review action. Err is set when the mutation failed; the
// board is re-fetched either way and RefreshErr carries any reload failure.
type Result struct {
	DocumentID string
	Status     string
	Err        error
	RefreshErr error
}

// Board holds the documents awaiting review.
type Board struct {
	api     API
	mu      sync.RWMutex
	pending []documents.DocumentResponse
}

// NewBoard constructs an empty board.
func NewBoard(api API) *Board {
	return &Board{api: api}
}

// Load fetches every document and keeps the pending ones.
func (b *Board) Load(ctx context.Context) error {
	all, err := b.api.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	pending := make([]documents.DocumentResponse, 0, len(all))
	for _, doc := range all {
		if doc.Status == documents.StatusPending {
			pending = append(pending, doc)
		}
	}
	b.mu.Lock()
	b.pending = pending
	b.mu.Unlock()
	return nil
}

// Pending returns the documents currently awaiting review.
func (b *Board) Pending() []documents.DocumentResponse {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]documents.DocumentResponse, len(b.pending))
	copy(out, b.pending)
	return out
}

// Approve marks id approved and reloads the board.
func (b *Board) Approve(ctx context.Context, id string) Result {
	return b.apply(ctx, id, documents.StatusApproved, b.api.ApproveDocument)
}

// Reject marks id rejected and reloads the board.
func (b *Board) Reject(ctx context.Context, id string) Result {
	return b.apply(ctx, id, documents.StatusRejected, b.api.RejectDocument)
}

func (b *Board) apply(ctx context.Context, id, status string, call func(context.Context, string) (documents.DocumentResponse, error)) Result {
	res := Result{DocumentID: id, Status: status}
	doc, err := call(ctx, id)
	if err != nil {
		res.Err = fmt.Errorf("%s %s: %w", status, id, err)
		telemetry.Warn("review.action.failed", map[string]any{"document_id": id, "status": status, "error": err})
	} else {
		res.Status = doc.Status
	}
	if err := b.Load(ctx); err != nil {
		res.RefreshErr = err
	}
	return res
}
