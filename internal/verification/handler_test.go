package verification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/documents"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func TestVerifyEndpointInline(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, "Date of Birth: 05/08/1998")
	router := newTestRouter(f.svc)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/"+doc.ID+"/verify", strings.NewReader(`{"referenceDob":"05/08/1998"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body documents.DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ExtractedDOB != "05/08/1998" || body.DOBMatch == nil || !*body.DOBMatch {
		t.Fatalf("unexpected verification fields %+v", body)
	}
}

func TestVerifyEndpointQueued(t *testing.T) {
	f := newFixture(t)
	f.svc.Queue = f.queue
	doc := f.upload(t, "DOB: 05/08/1998")
	router := newTestRouter(f.svc)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/"+doc.ID+"/verify", strings.NewReader(`{"referenceDob":"05/08/1998"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	var body QueuedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.DocumentID != doc.ID {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestVerifyEndpointErrors(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, "DOB: 05/08/1998")
	router := newTestRouter(f.svc)

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{name: "missing reference", path: "/api/documents/" + doc.ID + "/verify", body: `{}`, want: http.StatusBadRequest},
		{name: "bad json", path: "/api/documents/" + doc.ID + "/verify", body: `{`, want: http.StatusBadRequest},
		{name: "unknown document", path: "/api/documents/missing/verify", body: `{"referenceDob":"05/08/1998"}`, want: http.StatusNotFound},
		{name: "unknown applicant", path: "/api/documents/" + doc.ID + "/verify", body: `{"fullName":"Nobody"}`, want: http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.want, resp.Code, resp.Body.String())
		}
	}
}
