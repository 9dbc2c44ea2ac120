package documents

import (
	"context"
	"time"
)

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// List returns every document ordered by upload time, oldest first.
	List(ctx context.Context) ([]Document, error)
	UpdateStatus(ctx context.Context, id, status string, reviewedAt time.Time) (Document, error)
	UpdateVerification(ctx context.Context, id string, v Verification) (Document, error)
	Delete(ctx context.Context, id string) error
}
