package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakePresigner struct {
	key         string
	contentType string
	ttl         time.Duration
	err         error
}

func (f *fakePresigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	f.key, f.contentType, f.ttl = key, contentType, ttl
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.s3.amazonaws.com/" + key + "?X-Amz-Signature=abc", nil
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/presign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPresignReturnsSlotKey(t *testing.T) {
	fake := &fakePresigner{}
	resp := serve(NewHandler(fake), `{"fileName":"my score.pdf","documentType":"gateScorecard","contentType":"application/pdf","sizeBytes":2048}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out PresignResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(out.StorageKey, "uploads/gateScorecard/") {
		t.Fatalf("unexpected storage key %q", out.StorageKey)
	}
	if out.ExpiresInSeconds != int64(presignExpires.Seconds()) {
		t.Fatalf("unexpected expiry %d", out.ExpiresInSeconds)
	}
	if fake.contentType != "application/pdf" || fake.ttl != presignExpires {
		t.Fatalf("unexpected presign args %+v", fake)
	}
}

func TestPresignValidation(t *testing.T) {
	cases := map[string]string{
		"bad json":     `{`,
		"no file":      `{"documentType":"a","contentType":"application/pdf","sizeBytes":1}`,
		"no type":      `{"fileName":"a.pdf","contentType":"application/pdf","sizeBytes":1}`,
		"content type": `{"fileName":"a.exe","documentType":"a","contentType":"application/x-msdownload","sizeBytes":1}`,
		"too large":    `{"fileName":"a.pdf","documentType":"a","contentType":"application/pdf","sizeBytes":20971520}`,
		"zero size":    `{"fileName":"a.pdf","documentType":"a","contentType":"application/pdf","sizeBytes":0}`,
	}
	for name, body := range cases {
		resp := serve(NewHandler(&fakePresigner{}), body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, resp.Code)
		}
	}
}

func TestPresignFailureAndMissingPresigner(t *testing.T) {
	body := `{"fileName":"a.png","documentType":"a","contentType":"image/png","sizeBytes":10}`
	if resp := serve(NewHandler(&fakePresigner{err: errors.New("no creds")}), body); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if resp := serve(NewHandler(nil), body); resp.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", resp.Code)
	}
}
