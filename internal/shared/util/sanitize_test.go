package util

import (
	"testing"
	"time"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "scorecard.pdf", want: "scorecard.pdf"},
		{in: "  dir/sub\\file.png ", want: "dir_sub_file.png"},
		{in: "../secret", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestUploadKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	got, err := UploadKey(now, "GATE score.pdf")
	if err != nil {
		t.Fatalf("UploadKey: %v", err)
	}
	if got != "1700000000123-GATE score.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestSlotKey(t *testing.T) {
	got, err := SlotKey("casteCertificate", "cert.jpg")
	if err != nil {
		t.Fatalf("SlotKey: %v", err)
	}
	if got != "uploads/casteCertificate/cert.jpg" {
		t.Fatalf("unexpected key %q", got)
	}
	if _, err := SlotKey("", "cert.jpg"); err == nil {
		t.Fatalf("expected error for empty document type")
	}
}
