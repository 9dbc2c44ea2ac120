package documents

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.POST("/documents", h.register)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PUT("/documents/approve/:id", h.approve)
	rg.PUT("/documents/reject/:id", h.reject)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	userID := strings.TrimSpace(c.PostForm("userId"))
	docType := strings.TrimSpace(c.PostForm("documentType"))
	c.Set(middleware.DocumentTypeKey, docType)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}
	if docType == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentType is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		UserID:       userID,
		DocumentType: docType,
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
	}, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "upload_failed", "Failed to upload document", err.Error())
		}
		return
	}

	c.Set(middleware.DocumentIDKey, doc.ID)
	respond.Created(c, UploadResponse{
		Message:  "Document uploaded successfully",
		Document: ToResponse(doc),
	})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.DocumentTypeKey, req.DocumentType)

	doc, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		UserID:       req.UserID,
		DocumentType: req.DocumentType,
		StorageKey:   req.StorageKey,
		FileName:     req.FileName,
		ContentType:  req.ContentType,
		SizeBytes:    req.SizeBytes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "register_failed", "Failed to register document", err.Error())
		}
		return
	}

	c.Set(middleware.DocumentIDKey, doc.ID)
	respond.Created(c, UploadResponse{
		Message:  "Document registered successfully",
		Document: ToResponse(doc),
	})
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to list documents", err.Error())
		return
	}
	respond.OK(c, toResponses(docs))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DocumentIDKey, id)

	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeLookupError(c, err, "Failed to fetch document")
		return
	}
	respond.OK(c, ToResponse(doc))
}

func (h *Handler) approve(c *gin.Context) {
	h.review(c, StatusApproved)
}

func (h *Handler) reject(c *gin.Context) {
	h.review(c, StatusRejected)
}

func (h *Handler) review(c *gin.Context, status string) {
	id := c.Param("id")
	c.Set(middleware.DocumentIDKey, id)

	doc, err := h.Svc.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		h.writeLookupError(c, err, "Failed to update document status")
		return
	}
	c.Set(middleware.DocumentTypeKey, doc.DocumentType)
	c.Set(middleware.StatusTransitionKey, "->"+status)
	respond.OK(c, ToResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DocumentIDKey, id)

	if err := h.Svc.Remove(c.Request.Context(), id); err != nil {
		h.writeLookupError(c, err, "Failed to remove document")
		return
	}
	respond.OK(c, respond.MessageBody{Message: "Document removed successfully"})
}

func (h *Handler) writeLookupError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", message, err.Error())
	}
}
