package doctypes

import (
	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/server/respond"
)

// TypeResponse is one slot in the GET /document-types payload.
type TypeResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Handler serves the catalog so clients render the same slots the server expects.
type Handler struct {
	Catalog Catalog
}

// NewHandler constructs a Handler.
func NewHandler(c Catalog) *Handler {
	return &Handler{Catalog: c}
}

// RegisterRoutes attaches catalog routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/document-types", h.list)
}

func (h *Handler) list(c *gin.Context) {
	out := make([]TypeResponse, 0, len(h.Catalog.Types))
	for _, t := range h.Catalog.Types {
		out = append(out, TypeResponse{Key: t.Key, Label: t.Label})
	}
	respond.OK(c, out)
}
