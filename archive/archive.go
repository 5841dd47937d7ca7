// Package archive keeps raw source snapshots and run reports in object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"newsnotes/ingest"
	"newsnotes/scraper"
)

// ErrNotFound is returned when an archived object does not exist
var ErrNotFound = errors.New("archived object not found")

// ObjectStore is the subset of S3 used by the archiver. Get wraps ErrNotFound
// for a missing key.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Archiver writes snapshots/<run-id>.html and reports/<run-id>.json under a prefix
type Archiver struct {
	objects ObjectStore
	bucket  string
	prefix  string
}

// New returns an archiver for bucket. prefix may be empty.
func New(objects ObjectStore, bucket, prefix string) *Archiver {
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	return &Archiver{objects: objects, bucket: bucket, prefix: prefix}
}

// SnapshotKey is the object key of a run's raw document
func (a *Archiver) SnapshotKey(runID string) string {
	return a.prefix + "snapshots/" + runID + ".html"
}

// ReportKey is the object key of a run's report
func (a *Archiver) ReportKey(runID string) string {
	return a.prefix + "reports/" + runID + ".json"
}

// ArchiveRun stores the fetched document, then the report
func (a *Archiver) ArchiveRun(ctx context.Context, report *ingest.Report, doc *scraper.Document) error {
	if doc != nil {
		ct := doc.ContentType
		if ct == "" {
			ct = "text/html"
		}
		if err := a.objects.Put(ctx, a.bucket, a.SnapshotKey(report.RunID), bytes.NewReader(doc.Body), ct); err != nil {
			return fmt.Errorf("uploading snapshot: %w", err)
		}
	}

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := a.objects.Put(ctx, a.bucket, a.ReportKey(report.RunID), bytes.NewReader(b), "application/json"); err != nil {
		return fmt.Errorf("uploading report: %w", err)
	}
	return nil
}

// LoadReport reads back an archived report. A run that was never archived
// yields an error wrapping ErrNotFound.
func (a *Archiver) LoadReport(ctx context.Context, runID string) (*ingest.Report, error) {
	rc, err := a.objects.Get(ctx, a.bucket, a.ReportKey(runID))
	if err != nil {
		return nil, fmt.Errorf("downloading report %s: %w", runID, err)
	}
	defer rc.Close()

	var r ingest.Report
	if err := json.NewDecoder(rc).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", runID, err)
	}
	return &r, nil
}
