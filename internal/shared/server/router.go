package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/applicants"
	"docreview-backend/internal/doctypes"
	"docreview-backend/internal/documents"
	"docreview-backend/internal/shared/config"
	"docreview-backend/internal/shared/metrics"
	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
	"docreview-backend/internal/uploads"
	"docreview-backend/internal/verification"
)

const (
	groupDefault = "DEFAULT"
	groupUpload  = "UPLOAD"
	groupVerify  = "VERIFY"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterDeps carries the handlers and infrastructure the router exposes.
type RouterDeps struct {
	Config       config.Config
	Documents    *documents.Handler
	Applicants   *applicants.Handler
	Verification *verification.Handler
	Uploads      *uploads.Handler
	DocTypes     *doctypes.Handler
	Limiter      middleware.Limiter
	Checks       map[string]HealthCheck
	StaticDir    string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: groupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				groupDefault: {Rate: 20, Burst: 40},
				groupUpload:  {Rate: 1, Burst: 5},
				groupVerify:  {Rate: 0.5, Burst: 3},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if dir := strings.TrimSpace(deps.StaticDir); dir != "" {
		r.Static("/uploads", dir)
	}

	api := r.Group("/api")
	api.GET("/health", healthHandler(deps.Checks))
	if deps.Documents != nil {
		deps.Documents.RegisterRoutes(api)
	}
	if deps.Verification != nil {
		deps.Verification.RegisterRoutes(api)
	}
	if deps.Uploads != nil {
		deps.Uploads.RegisterRoutes(api)
	}
	if deps.Applicants != nil {
		deps.Applicants.RegisterRoutes(api)
	}
	if deps.DocTypes != nil {
		deps.DocTypes.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return groupDefault
	}
	switch c.FullPath() {
	case "/api/documents/upload", "/api/uploads/presign":
		return groupUpload
	case "/api/documents/:id/verify":
		return groupVerify
	default:
		return groupDefault
	}
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		respond.JSON(c, status, gin.H{"ok": status == http.StatusOK, "checks": results})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
