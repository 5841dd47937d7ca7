package client

import (
	"context"
	"net/http"
	"net/url"

	"newsnotes/ingest"
)

// Scrape triggers an ingestion run and waits for its report. source may be a
// preset name, a URL, or empty for the server default.
func (c *Client) Scrape(ctx context.Context, source string) (*ingest.Report, error) {
	var report ingest.Report
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/scrape", map[string]string{"source": source}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Run fetches the archived report of a past run
func (c *Client) Run(ctx context.Context, runID string) (*ingest.Report, error) {
	var report ingest.Report
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/runs/"+url.PathEscape(runID), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
