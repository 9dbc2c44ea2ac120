package applicants

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches applicant routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/details", h.create)
	rg.GET("/details", h.list)
	rg.GET("/details/:fullName", h.getByName)
	rg.PUT("/details/validate/:fullName", h.validate)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	a, err := h.Svc.Create(c.Request.Context(), CreateInput{
		FullName:      req.FullName,
		DOB:           req.DOB,
		Gender:        req.Gender,
		ImageURL:      req.ImageURL,
		ExtractedInfo: req.ExtractedInfo,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error saving details", err.Error())
		return
	}
	respond.Created(c, DataResponse{Message: "Details saved successfully", Data: ToResponse(a)})
}

func (h *Handler) list(c *gin.Context) {
	all, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error fetching details", err.Error())
		return
	}
	out := make([]ApplicantResponse, 0, len(all))
	for _, a := range all {
		out = append(out, ToResponse(a))
	}
	respond.OK(c, out)
}

func (h *Handler) getByName(c *gin.Context) {
	a, err := h.Svc.GetByName(c.Request.Context(), c.Param("fullName"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Message(c, http.StatusNotFound, "Details not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error fetching details", err.Error())
		return
	}
	respond.OK(c, ToResponse(a))
}

func (h *Handler) validate(c *gin.Context) {
	a, err := h.Svc.ValidateByName(c.Request.Context(), c.Param("fullName"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Message(c, http.StatusNotFound, "Details not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error updating details", err.Error())
		return
	}
	respond.OK(c, DataResponse{Message: "Details updated successfully", Data: ToResponse(a)})
}
