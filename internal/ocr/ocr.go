package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF        = "application/pdf"
	defaultTimeout = 30 * time.Second
)

// ErrUnsupported is returned when an extractor cannot read the payload type.
var ErrUnsupported = errors.New("unsupported document type")

// Extractor turns a document payload into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, fileName string, data []byte) (string, error)
}

// HTTPExtractor calls an external OCR endpoint that accepts a multipart "image"
// field and answers with {"text": "..."}.
type HTTPExtractor struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPExtractor builds an extractor with a bounded client timeout.
func NewHTTPExtractor(endpoint string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPExtractor{
		Endpoint: strings.TrimSpace(endpoint),
		Client:   &http.Client{Timeout: timeout},
	}
}

type extractResponse struct {
	Text string `json:"text"`
}

func (e *HTTPExtractor) ExtractText(ctx context.Context, fileName string, data []byte) (string, error) {
	if e == nil || e.Endpoint == "" {
		return "", errors.New("ocr endpoint not configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filepath.Base(fallbackName(fileName)))
	if err != nil {
		return "", fmt.Errorf("ocr form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("ocr form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("ocr form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := e.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ocr status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ocr decode: %w", err)
	}
	return out.Text, nil
}

// PDFExtractor reads the embedded text layer of PDFs. Plain-text payloads pass through.
type PDFExtractor struct{}

func (PDFExtractor) ExtractText(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch detectType(fileName, data) {
	case mimePDF:
		return extractPDF(data)
	case "text/plain":
		return string(data), nil
	default:
		return "", ErrUnsupported
	}
}

// Chain tries each extractor in order and returns the first non-empty text.
type Chain []Extractor

func (c Chain) ExtractText(ctx context.Context, fileName string, data []byte) (string, error) {
	if len(c) == 0 {
		return "", errors.New("no ocr extractors configured")
	}
	var errs []error
	for _, ex := range c {
		if ex == nil {
			continue
		}
		text, err := ex.ExtractText(ctx, fileName, data)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if len(errs) == 0 {
		return "", nil
	}
	return "", errors.Join(errs...)
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func detectType(fileName string, data []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".txt":
		return "text/plain"
	}
	sniffed := http.DetectContentType(data)
	clean := strings.ToLower(strings.TrimSpace(strings.Split(sniffed, ";")[0]))
	return clean
}

func fallbackName(fileName string) string {
	if strings.TrimSpace(fileName) == "" {
		return "document"
	}
	return fileName
}
