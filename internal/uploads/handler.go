package uploads

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
	"docreview-backend/internal/shared/storage/object"
	"docreview-backend/internal/shared/telemetry"
	"docreview-backend/internal/shared/util"
)

const (
	maxUploadBytes = 10 << 20
	presignExpires = 15 * time.Minute
)

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"image/tiff":      {},
}

// Handler issues presigned PUT URLs for direct-to-storage uploads.
type Handler struct {
	Presigner object.Presigner
	Expires   time.Duration
}

// NewHandler constructs a Handler. A nil presigner disables the route with a 501.
func NewHandler(p object.Presigner) *Handler {
	return &Handler{Presigner: p, Expires: presignExpires}
}

type presignRequest struct {
	FileName     string `json:"fileName"`
	DocumentType string `json:"documentType"`
	ContentType  string `json:"contentType"`
	SizeBytes    int64  `json:"sizeBytes"`
}

// PresignResponse is returned to the client before it PUTs the file.
type PresignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	StorageKey       string `json:"storageKey"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/presign", h.presign)
}

func (h *Handler) presign(c *gin.Context) {
	if h.Presigner == nil {
		respond.Error(c, http.StatusNotImplemented, "not_configured", "direct uploads require the s3 object store", nil)
		return
	}

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.DocumentType = strings.TrimSpace(req.DocumentType)
	req.ContentType = strings.TrimSpace(req.ContentType)
	c.Set(middleware.DocumentTypeKey, req.DocumentType)

	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		return
	}
	if req.DocumentType == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentType is required", nil)
		return
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "contentType is not allowed", nil)
		return
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "sizeBytes exceeds limit", nil)
		return
	}

	key, err := util.SlotKey(req.DocumentType, req.FileName)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid fileName", nil)
		return
	}

	expires := h.Expires
	if expires <= 0 {
		expires = presignExpires
	}
	url, err := h.Presigner.PresignPut(c.Request.Context(), key, req.ContentType, expires)
	if err != nil {
		telemetry.Error("uploads.presign.failed", map[string]any{
			"error":       err,
			"key":         key,
			"contentType": req.ContentType,
			"sizeBytes":   req.SizeBytes,
			"request_id":  middleware.RequestIDFromContext(c),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate upload url", nil)
		return
	}

	respond.OK(c, PresignResponse{
		UploadURL:        url,
		StorageKey:       key,
		ExpiresInSeconds: int64(expires.Seconds()),
	})
}
