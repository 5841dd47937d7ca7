package events

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"newsnotes/ingest"
)

// IngestRequest asks the service to run an ingestion. An empty Source means
// the configured default source.
type IngestRequest struct {
	Source    string `json:"source"`
	RequestID string `json:"request_id,omitempty"`
}

// Ingester runs one ingestion
type Ingester interface {
	Ingest(ctx context.Context, sourceURL string) (*ingest.Report, error)
}

// NewIngestRequestHandler returns a handler that runs each request through
// the ingester. Requests arriving while a run is in progress are skipped.
func NewIngestRequestHandler(ing Ingester, defaultSource string, logger *slog.Logger) *TypedMessageHandler[IngestRequest] {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypedMessageHandler[IngestRequest]{
		AlwaysMark: true,
		Logger:     logger,
		Validate: func(req *IngestRequest) bool {
			req.Source = strings.TrimSpace(req.Source)
			if req.Source == "" {
				req.Source = defaultSource
			}
			return req.Source != ""
		},
		Process: func(ctx context.Context, req *IngestRequest) error {
			report, err := ing.Ingest(ctx, req.Source)
			if errors.Is(err, ingest.ErrRunInProgress) {
				logger.Warn("ingest request skipped, run in progress", "request_id", req.RequestID, "source", req.Source)
				return nil
			}
			if err != nil {
				return err
			}
			logger.Info("ingest request handled",
				"request_id", req.RequestID, "run_id", report.RunID, "succeeded", report.Succeeded)
			return nil
		},
	}
}
