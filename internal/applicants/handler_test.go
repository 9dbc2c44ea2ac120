package applicants

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestService()).RegisterRoutes(r.Group("/api"))
	return r
}

func TestDetailsCreateGetValidate(t *testing.T) {
	router := newTestRouter()

	payload := `{"fullName":"Asha Rao","dob":"05/08/1998","gender":"F","imageUrl":"http://img","extractedInfo":{"Name":"Asha Rao"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/details", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created DataResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Message != "Details saved successfully" || created.Data.IsValid {
		t.Fatalf("unexpected create response %+v", created)
	}
	if info, _ := created.Data.ExtractedInfo.(map[string]any); info["Name"] != "Asha Rao" {
		t.Fatalf("expected extractedInfo to round-trip, got %v", created.Data.ExtractedInfo)
	}

	name := url.PathEscape("Asha Rao")
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, httptest.NewRequest(http.MethodGet, "/api/details/"+name, nil))
	if getResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.Code)
	}

	valResp := httptest.NewRecorder()
	router.ServeHTTP(valResp, httptest.NewRequest(http.MethodPut, "/api/details/validate/"+name, nil))
	if valResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", valResp.Code)
	}
	var validated DataResponse
	if err := json.NewDecoder(valResp.Body).Decode(&validated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !validated.Data.IsValid || validated.Message != "Details updated successfully" {
		t.Fatalf("unexpected validate response %+v", validated)
	}

	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, httptest.NewRequest(http.MethodGet, "/api/details", nil))
	var all []ApplicantResponse
	if err := json.NewDecoder(listResp.Body).Decode(&all); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 applicant, got %d", len(all))
	}
}

func TestDetailsNotFoundUsesMessageBody(t *testing.T) {
	router := newTestRouter()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/details/Nobody"},
		{http.MethodPut, "/api/details/validate/Nobody"},
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.path, resp.Code)
		}
		if resp.Body.String() != `{"message":"Details not found"}` {
			t.Fatalf("unexpected body %s", resp.Body.String())
		}
	}
}

func TestDetailsCreateRequiresFullName(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/details", bytes.NewBufferString(`{"dob":"05/08/1998"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDetailsCreateAcceptsAnyExtractedInfo(t *testing.T) {
	router := newTestRouter()
	for _, tc := range []struct {
		name    string
		payload string
		want    any
	}{
		{"array", `{"fullName":"A","extractedInfo":["x","y"]}`, []any{"x", "y"}},
		{"string", `{"fullName":"B","extractedInfo":"raw ocr text"}`, "raw ocr text"},
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/details", bytes.NewBufferString(tc.payload))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("%s: expected 201, got %d: %s", tc.name, resp.Code, resp.Body.String())
		}
		var created DataResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if !reflect.DeepEqual(created.Data.ExtractedInfo, tc.want) {
			t.Fatalf("%s: expected extractedInfo %v, got %#v", tc.name, tc.want, created.Data.ExtractedInfo)
		}
	}
}
