package verification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/applicants"
	"docreview-backend/internal/documents"
	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
)

// Handler exposes verification over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type verifyRequest struct {
	ReferenceDOB string `json:"referenceDob"`
	FullName     string `json:"fullName"`
}

// QueuedResponse is returned when verification runs on a worker.
type QueuedResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"documentId"`
}

// RegisterRoutes attaches verification routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/verify", h.verify)
}

func (h *Handler) verify(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DocumentIDKey, id)

	var req verifyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
			return
		}
	}

	out, err := h.Svc.Request(c.Request.Context(), Request{
		DocumentID:   id,
		ReferenceDOB: req.ReferenceDOB,
		FullName:     req.FullName,
		RequestID:    middleware.RequestIDFromContext(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrReferenceRequired):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		case errors.Is(err, applicants.ErrNotFound):
			respond.Message(c, http.StatusNotFound, "Details not found")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to verify document", err.Error())
		}
		return
	}

	c.Set(middleware.DocumentTypeKey, out.Document.DocumentType)
	if out.Queued {
		respond.JSON(c, http.StatusAccepted, QueuedResponse{Message: "Verification queued", DocumentID: out.Document.ID})
		return
	}
	respond.OK(c, documents.ToResponse(out.Document))
}
