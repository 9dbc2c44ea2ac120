package respond

import (
	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if docID := c.GetString("documentId"); docID != "" {
		fields["document_id"] = docID
	}
	if s, ok := details.(string); ok && status >= 500 {
		fields["details"] = s
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Message aborts with the bare {"message": ...} body used by the applicant routes.
func Message(c *gin.Context, status int, message string) {
	telemetry.Info("http.message", map[string]any{
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("requestId"),
	})
	c.AbortWithStatusJSON(status, MessageBody{Message: message})
}
