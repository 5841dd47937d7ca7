package api

import (
	"context"
	"net/http"

	"newsnotes/ingest"

	"github.com/gin-gonic/gin"
)

// ReportLoader reads back the report of a past run
type ReportLoader interface {
	LoadReport(ctx context.Context, runID string) (*ingest.Report, error)
}

// RegisterRunRoutes registers lookups of archived run reports
func (s *Server) RegisterRunRoutes(r *gin.Engine) {
	r.GET("/api/runs/:id", s.getRun)
}

func (s *Server) getRun(c *gin.Context) {
	if s.deps.Reports == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "run archiving is not configured"})
		return
	}
	report, err := s.deps.Reports.LoadReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
