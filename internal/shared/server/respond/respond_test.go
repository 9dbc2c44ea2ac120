package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/telemetry"
)

func TestErrorWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	defer telemetry.SetOutput(&buf)()

	r := gin.New()
	r.GET("/fail", func(c *gin.Context) {
		Error(c, http.StatusInternalServerError, "storage_failed", "Failed to store file", "disk full")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/fail", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var payload ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "storage_failed" || payload.Error.Details != "disk full" {
		t.Fatalf("unexpected body: %+v", payload)
	}
}

func TestMessageBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	defer telemetry.SetOutput(&buf)()

	r := gin.New()
	r.GET("/missing", func(c *gin.Context) {
		Message(c, http.StatusNotFound, "User not found")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != `{"message":"User not found"}` {
		t.Fatalf("unexpected body %s", got)
	}
}
