package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"docreview-backend/internal/shared/storage/object"
)

func TestPutOpenDelete(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:3000/uploads/")
	ctx := context.Background()

	n, err := store.Put(ctx, "1700000000000-scorecard.pdf", "application/pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != int64(len("%PDF-1.4 body")) {
		t.Fatalf("unexpected size %d", n)
	}

	rc, err := store.Open(ctx, "1700000000000-scorecard.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, "1700000000000-scorecard.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "1700000000000-scorecard.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "1700000000000-scorecard.pdf"); err != nil {
		t.Fatalf("expected deleting a missing object to succeed, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:3000/uploads")
	for _, key := range []string{"../etc/passwd", "/abs/path", ""} {
		if _, err := store.Put(context.Background(), key, "text/plain", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestURL(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:3000/uploads/")
	if got := store.URL("123-file.pdf"); got != "http://localhost:3000/uploads/123-file.pdf" {
		t.Fatalf("unexpected url %s", got)
	}
}
