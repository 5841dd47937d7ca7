// Package api exposes articles, notes and ingestion runs over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"newsnotes/ingest"
	"newsnotes/scraper"
	"newsnotes/store"

	"github.com/gin-gonic/gin"
)

// Ingester runs one ingestion of a source
type Ingester interface {
	Ingest(ctx context.Context, sourceURL string) (*ingest.Report, error)
}

// ContentReader produces a reader view of an article page
type ContentReader interface {
	Read(ctx context.Context, link string) (*scraper.ReaderView, error)
}

// Deps are the collaborators the handlers use. Reader and Reports may be
// nil, in which case their routes answer 501.
type Deps struct {
	Store         store.Store
	Ingester      Ingester
	Reader        ContentReader
	Reports       ReportLoader
	DefaultSource string
	// ResolveSource maps a preset name to a URL; identity when nil
	ResolveSource func(string) string
	// Metrics is served on /metrics when set
	Metrics http.Handler
	Logger  *slog.Logger
}

// Server holds the handler dependencies
type Server struct {
	deps   Deps
	logger *slog.Logger
}

// NewRouter constructs a Gin engine with every route registered
func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.ResolveSource == nil {
		deps.ResolveSource = func(s string) string { return s }
	}
	s := &Server{deps: deps, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	RegisterHealthRoutes(r)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}
	s.RegisterArticleRoutes(r)
	s.RegisterNoteRoutes(r)
	s.RegisterScrapeRoutes(r)
	s.RegisterRunRoutes(r)
	return r
}

// RegisterHealthRoutes registers the liveness endpoint
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			logger.Error("request", attrs...)
		case status >= 400:
			logger.Warn("request", attrs...)
		default:
			logger.Debug("request", attrs...)
		}
	}
}
