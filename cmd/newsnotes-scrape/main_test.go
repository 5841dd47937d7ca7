package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsnotes/config"
	"newsnotes/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PrintsSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<article class="has-image"><div class="item-info"><h2 class="title"><a href="https://example.com/a">A</a></h2></div></article>`))
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	cfg := &config.Config{Mode: "replace", LogLevel: "error"}
	require.NoError(t, run(context.Background(), cfg, srv.URL, &out))
	assert.Contains(t, out.String(), "Created:      1")
	assert.Contains(t, out.String(), "Field misses: 3")
}

func TestRun_FailedRun(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var out bytes.Buffer
	cfg := &config.Config{Mode: "replace", LogLevel: "error"}
	err := run(context.Background(), cfg, url, &out)
	assert.ErrorIs(t, err, errRunFailed)
	assert.Contains(t, out.String(), "Failed at:    fetch")
}

func TestDisplayReport_ListsFailedRecords(t *testing.T) {
	var out bytes.Buffer
	displayReport(&out, &ingest.Report{
		Succeeded: true,
		Records: []ingest.RecordResult{
			{Index: 0, Status: ingest.StatusCreated},
			{Index: 1, Link: "https://example.com/b", Status: ingest.StatusFailed, Error: "no field resolved"},
		},
		Warnings: []string{"publish: broker down"},
	})
	assert.Contains(t, out.String(), "[1] https://example.com/b: no field resolved")
	assert.Contains(t, out.String(), "Warning: publish: broker down")
}
