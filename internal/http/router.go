// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, idempotency, rate limiting, CORS, and security headers.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-intake-backend/docs" // registers swagger docs
	"github.com/tbourn/go-intake-backend/internal/auth"
	"github.com/tbourn/go-intake-backend/internal/config"
	"github.com/tbourn/go-intake-backend/internal/domain"
	"github.com/tbourn/go-intake-backend/internal/events"
	"github.com/tbourn/go-intake-backend/internal/http/handlers"
	"github.com/tbourn/go-intake-backend/internal/http/middleware"
	"github.com/tbourn/go-intake-backend/internal/repo"
	"github.com/tbourn/go-intake-backend/internal/services"
)

// repoShim adapts the repository free functions to the services.IntakeRepo
// and services.SubmissionRepo interfaces.
type repoShim struct{}

var (
	_ services.IntakeRepo     = repoShim{}
	_ services.SubmissionRepo = repoShim{}
)

// CreateSubmission proxies repo.CreateSubmission.
func (repoShim) CreateSubmission(ctx context.Context, db *gorm.DB, username string, data domain.IntakeData, recommendation string, riskScore int) (*domain.Submission, error) {
	return repo.CreateSubmission(ctx, db, username, data, recommendation, riskScore)
}

// GetSubmission proxies repo.GetSubmission.
func (repoShim) GetSubmission(ctx context.Context, db *gorm.DB, id uint) (*domain.Submission, error) {
	return repo.GetSubmission(ctx, db, id)
}

// ListSubmissionSummaries proxies repo.ListSubmissionSummaries.
func (repoShim) ListSubmissionSummaries(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SubmissionSummary, error) {
	return repo.ListSubmissionSummaries(ctx, db, offset, limit)
}

// CountSubmissions proxies repo.CountSubmissions.
func (repoShim) CountSubmissions(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountSubmissions(ctx, db)
}

// GetIdempotency proxies repo.GetIdempotency.
func (repoShim) GetIdempotency(ctx context.Context, db *gorm.DB, username, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, username, key, now)
}

// CreateIdempotency proxies repo.CreateIdempotency.
func (repoShim) CreateIdempotency(ctx context.Context, db *gorm.DB, username, key string, submissionID uint, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, username, key, submissionID, status, ttl)
}

// Deps are the process-level collaborators the routes need.
type Deps struct {
	DB            *gorm.DB
	Authenticator auth.Authenticator
	// Publisher receives submission.created events; nil disables them.
	Publisher events.Publisher
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID + Identity: correlation id and caller
//  3. RedactingLogger: access log and request-scoped logger
//  4. Recovery: capture panics after the logger is attached
//  5. Body size limiter and gzip
//  6. Metrics
//  7. Idempotency validator on the intake route (before rate limiting so
//     replays bypass it)
//  8. Rate limiter (per user/IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	db := deps.DB

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())
	r.Use(middleware.Identity())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Body cap and response compression
	r.Use(limitBody(cfg.MaxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen:      domain.IdempotencyKeyMaxLen,
			DefaultUser: cfg.DefaultUsername,
			Paths:       []string{routePath(cfg.APIBasePath, "/intake")},
		},
		func(ctx context.Context, username, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, username, key, now)
			switch {
			case err == nil:
				return true, nil
			case errors.Is(err, repo.ErrNotFound):
				return false, nil
			default:
				return false, err
			}
		},
	))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP()).
		Exempt("/health", "/metrics")
	r.Use(rl.Handler())

	// 9) CORS posture (allow all if none configured) and security headers
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, handlers.MsgRouteNotFound)
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, handlers.MsgMethodNotAllowed)
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	intakeSvc := services.NewIntakeService(db, repoShim{}, deps.Publisher)
	intakeSvc.StrictNumeric = cfg.StrictNumeric
	if cfg.IdempotencyTTL > 0 {
		intakeSvc.IdempotencyTTL = cfg.IdempotencyTTL
	}
	if cfg.Events.Timeout > 0 {
		intakeSvc.EventsTimeout = cfg.Events.Timeout
	}
	subSvc := services.NewSubmissionService(db, repoShim{})

	h := handlers.New(intakeSvc, subSvc, deps.Authenticator, cfg.DefaultUsername)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/intake", h.SubmitIntake)
		api.POST("/login", h.Login)
		api.GET("/submissions", h.GetSubmissions)
	}
}

// corsMiddleware allows every origin when none are configured (credentials
// off) and otherwise only the listed origins.
func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "If-None-Match",
			middleware.UserIDHeader, middleware.HeaderIdempotencyKey,
		},
		ExposeHeaders: []string{
			"X-Request-ID", "Content-Length", "ETag", "Retry-After",
			handlers.HeaderTotalCount, handlers.HeaderIdempotencyReplayed,
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return cors.New(c)
}

// limitBody caps the request body at maxBytes using http.MaxBytesReader.
// Reads beyond the cap fail, which binding reports as a bad request.
// maxBytes <= 0 disables the cap.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// routePath is the full Gin path of p mounted under prefix.
func routePath(prefix, p string) string {
	if prefix == "" || prefix == "/" {
		return p
	}
	return strings.TrimSuffix(prefix, "/") + p
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
