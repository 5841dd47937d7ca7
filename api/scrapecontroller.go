package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"newsnotes/ingest"

	"github.com/gin-gonic/gin"
)

// ScrapeRequest selects the source of a run. Source is a preset name or URL;
// empty means the configured default.
type ScrapeRequest struct {
	Source string `json:"source"`
}

// RegisterScrapeRoutes registers the ingestion trigger
func (s *Server) RegisterScrapeRoutes(r *gin.Engine) {
	r.POST("/api/scrape", s.handleScrape)
}

// handleScrape runs an ingestion synchronously and returns its report.
// The run is detached from client cancellation so a dropped connection
// cannot leave the store half cleared.
func (s *Server) handleScrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = s.deps.DefaultSource
	}
	source = s.deps.ResolveSource(source)
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no source given and no default configured"})
		return
	}

	report, err := s.deps.Ingester.Ingest(context.WithoutCancel(c.Request.Context()), source)
	if errors.Is(err, ingest.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(reportStatus(report), report)
}

func reportStatus(r *ingest.Report) int {
	if r.Succeeded {
		return http.StatusOK
	}
	switch r.Stage {
	case ingest.StageFetch:
		return http.StatusBadGateway
	case ingest.StageParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}
