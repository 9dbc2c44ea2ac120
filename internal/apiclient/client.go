// Package apiclient talks to the docreview REST API on behalf of the intake and review workflows.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"docreview-backend/internal/applicants"
	"docreview-backend/internal/documents"
)

const defaultTimeout = 30 * time.Second

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError carries a non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api status %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ProgressFunc receives bytes sent so far and the total request size.
type ProgressFunc func(sent, total int64)

// Client is a thin typed wrapper over the REST API.
type Client struct {
	baseURL string
	http    HTTPDoer
}

// New builds a client for baseURL, e.g. http://localhost:3000/api.
func New(baseURL string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), http: doer}
}

// UploadDocument posts a multipart upload and reports progress while the body is sent.
func (c *Client) UploadDocument(ctx context.Context, userID, documentType, fileName string, r io.Reader, progress ProgressFunc) (documents.DocumentResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("userId", userID); err != nil {
		return documents.DocumentResponse{}, err
	}
	if err := mw.WriteField("documentType", documentType); err != nil {
		return documents.DocumentResponse{}, err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return documents.DocumentResponse{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return documents.DocumentResponse{}, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return documents.DocumentResponse{}, err
	}

	total := int64(body.Len())
	var reader io.Reader = bytes.NewReader(body.Bytes())
	if progress != nil {
		reader = &progressReader{r: reader, total: total, fn: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", reader)
	if err != nil {
		return documents.DocumentResponse{}, err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out documents.UploadResponse
	if err := c.do(req, &out); err != nil {
		return documents.DocumentResponse{}, err
	}
	return out.Document, nil
}

// ListDocuments returns every document.
func (c *Client) ListDocuments(ctx context.Context) ([]documents.DocumentResponse, error) {
	var out []documents.DocumentResponse
	if err := c.send(ctx, http.MethodGet, "/documents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDocument returns one document.
func (c *Client) GetDocument(ctx context.Context, id string) (documents.DocumentResponse, error) {
	var out documents.DocumentResponse
	err := c.send(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, &out)
	return out, err
}

// ApproveDocument marks a document approved.
func (c *Client) ApproveDocument(ctx context.Context, id string) (documents.DocumentResponse, error) {
	var out documents.DocumentResponse
	err := c.send(ctx, http.MethodPut, "/documents/approve/"+url.PathEscape(id), nil, &out)
	return out, err
}

// RejectDocument marks a document rejected.
func (c *Client) RejectDocument(ctx context.Context, id string) (documents.DocumentResponse, error) {
	var out documents.DocumentResponse
	err := c.send(ctx, http.MethodPut, "/documents/reject/"+url.PathEscape(id), nil, &out)
	return out, err
}

// DeleteDocument removes a document and its stored file.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil)
}

// ApplicantInput is the body of POST /details.
type ApplicantInput struct {
	FullName      string `json:"fullName"`
	DOB           string `json:"dob"`
	Gender        string `json:"gender"`
	ImageURL      string `json:"imageUrl"`
	ExtractedInfo any    `json:"extractedInfo,omitempty"`
}

// SaveApplicant creates an applicant record.
func (c *Client) SaveApplicant(ctx context.Context, in ApplicantInput) (applicants.ApplicantResponse, error) {
	var out struct {
		Data applicants.ApplicantResponse `json:"data"`
	}
	err := c.send(ctx, http.MethodPost, "/details", in, &out)
	return out.Data, err
}

// GetApplicant returns the first applicant with fullName.
func (c *Client) GetApplicant(ctx context.Context, fullName string) (applicants.ApplicantResponse, error) {
	var out applicants.ApplicantResponse
	err := c.send(ctx, http.MethodGet, "/details/"+url.PathEscape(fullName), nil, &out)
	return out, err
}

// ValidateApplicant sets isValid on the first applicant with fullName.
func (c *Client) ValidateApplicant(ctx context.Context, fullName string) (applicants.ApplicantResponse, error) {
	var out struct {
		Data applicants.ApplicantResponse `json:"data"`
	}
	err := c.send(ctx, http.MethodPut, "/details/validate/"+url.PathEscape(fullName), nil, &out)
	return out.Data, err
}

func (c *Client) send(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Message string `json:"message"`
}

func decodeError(status int, raw []byte) error {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		switch {
		case env.Error != nil:
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		case env.Message != "":
			apiErr.Message = env.Message
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}

type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}
