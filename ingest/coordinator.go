// Package ingest runs the fetch, extract and persist pipeline for a source page.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"

	"newsnotes/scraper"
	"newsnotes/store"
	"newsnotes/types"

	"github.com/google/uuid"
)

var (
	// ErrRunInProgress is returned when Ingest is called while another run executes
	ErrRunInProgress = errors.New("ingestion run already in progress")
	// ErrEmptyRecord rejects a candidate where no field resolved
	ErrEmptyRecord = errors.New("no field resolved")
	// ErrMissingRequired rejects a candidate missing a required field
	ErrMissingRequired = errors.New("required field missing")
)

// Fetcher retrieves the source document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Document, error)
}

// Extractor turns a fetched document into candidate records. A returned error
// means the document could not be processed at all.
type Extractor interface {
	Extract(ctx context.Context, doc *scraper.Document) (iter.Seq[scraper.Candidate], error)
}

// Archiver keeps a copy of the fetched document and the run report
type Archiver interface {
	ArchiveRun(ctx context.Context, report *Report, doc *scraper.Document) error
}

// Publisher announces finished runs
type Publisher interface {
	PublishReport(ctx context.Context, report *Report) error
}

// Coordinator orchestrates ingestion runs against a store
type Coordinator struct {
	store      store.Store
	fetcher    Fetcher
	extractor  Extractor
	mode       Mode
	archiver   Archiver
	publishers []Publisher
	logger     *slog.Logger
	now        func() time.Time

	mu sync.Mutex
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithMode selects replace or reconcile semantics
func WithMode(m Mode) Option {
	return func(c *Coordinator) { c.mode = m }
}

// WithArchiver stores raw documents and reports after each run
func WithArchiver(a Archiver) Option {
	return func(c *Coordinator) { c.archiver = a }
}

// WithPublisher adds a publisher that receives each report after the run.
// Publishers are called in the order they were added.
func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) { c.publishers = append(c.publishers, p) }
}

// WithLogger sets the run logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a coordinator. Replace mode is the default.
func New(st store.Store, f Fetcher, x Extractor, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     st,
		fetcher:   f,
		extractor: x,
		mode:      ModeReplace,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the configured reconciliation mode
func (c *Coordinator) Mode() Mode { return c.mode }

// Ingest runs one ingestion of sourceURL. Run-level failures are described by
// the report; the only returned error is ErrRunInProgress.
func (c *Coordinator) Ingest(ctx context.Context, sourceURL string) (*Report, error) {
	if !c.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer c.mu.Unlock()

	report := &Report{
		RunID:     uuid.NewString(),
		SourceURL: sourceURL,
		Mode:      c.mode,
		StartedAt: c.now().UTC(),
		Records:   []RecordResult{},
	}
	logger := c.logger.With("run_id", report.RunID, "source", sourceURL, "mode", c.mode)
	logger.Info("ingestion started")

	doc := c.run(ctx, sourceURL, report, logger)
	report.FinishedAt = c.now().UTC()
	c.afterRun(ctx, report, doc, logger)

	if report.Succeeded {
		logger.Info("ingestion finished",
			"candidates", report.CandidatesSeen,
			"created", report.Created,
			"updated", report.Updated,
			"removed", report.Removed,
			"failed", report.Failed,
			"field_misses", report.FieldMisses)
	} else {
		logger.Error("ingestion aborted", "stage", report.Stage, "error", report.Error)
	}
	return report, nil
}

// run executes the pipeline and returns the fetched document, if any
func (c *Coordinator) run(ctx context.Context, sourceURL string, report *Report, logger *slog.Logger) *scraper.Document {
	if c.mode == ModeReplace {
		if err := c.clear(ctx, report); err != nil {
			report.fail(StageClear, err)
			return nil
		}
		logger.Info("cleared previous state", "articles", report.Cleared.Articles, "notes", report.Cleared.Notes)
	}

	doc, err := c.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		report.fail(StageFetch, err)
		return nil
	}
	if doc.Truncated {
		report.warn(fmt.Sprintf("source body truncated at %d bytes; records past the cut are missing", len(doc.Body)))
	}

	candidates, err := c.extractor.Extract(ctx, doc)
	if err != nil {
		report.fail(StageParse, err)
		return doc
	}

	switch c.mode {
	case ModeReconcile:
		if err := c.reconcile(ctx, report, candidates, logger); err != nil {
			report.fail(StageLoad, err)
			return doc
		}
	default:
		for cand := range candidates {
			c.observe(report, cand)
			report.record(c.create(ctx, cand, logger))
		}
	}

	report.Succeeded = true
	return doc
}

func (c *Coordinator) clear(ctx context.Context, report *Report) error {
	n, err := c.store.DeleteAllArticles(ctx)
	if err != nil {
		return fmt.Errorf("clearing articles: %w", err)
	}
	report.Cleared.Articles = n

	n, err = c.store.DeleteAllNotes(ctx)
	if err != nil {
		return fmt.Errorf("clearing notes: %w", err)
	}
	report.Cleared.Notes = n
	return nil
}

func (c *Coordinator) observe(report *Report, cand scraper.Candidate) {
	report.CandidatesSeen++
	report.FieldMisses += len(cand.Misses)
}

func validate(cand scraper.Candidate) error {
	if cand.Empty() {
		return ErrEmptyRecord
	}
	if len(cand.MissingRequired) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(cand.MissingRequired, ", "))
	}
	return nil
}

func fieldsOf(cand scraper.Candidate) types.ArticleFields {
	return types.ArticleFields{
		Link:     types.Deref(cand.Get(types.FieldLink)),
		Image:    cand.Get(types.FieldImage),
		Title:    cand.Get(types.FieldTitle),
		Category: cand.Get(types.FieldCategory),
		Summary:  cand.Get(types.FieldSummary),
	}
}

func (c *Coordinator) create(ctx context.Context, cand scraper.Candidate, logger *slog.Logger) RecordResult {
	fields := fieldsOf(cand)
	res := RecordResult{Index: cand.Index, Link: fields.Link, MissingFields: cand.Misses}

	if err := validate(cand); err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		logger.Warn("record rejected", "index", cand.Index, "error", err)
		return res
	}

	a, err := c.store.CreateArticle(ctx, fields)
	if err != nil {
		res.Status = StatusFailed
		res.Error = fmt.Sprintf("persisting record: %v", err)
		logger.Warn("record not persisted", "index", cand.Index, "link", fields.Link, "error", err)
		return res
	}
	res.Status = StatusCreated
	res.ArticleID = a.ID
	return res
}

// reconcile updates articles whose link matches a candidate, creates the rest
// and removes unsaved articles that are no longer on the page.
func (c *Coordinator) reconcile(ctx context.Context, report *Report, candidates iter.Seq[scraper.Candidate], logger *slog.Logger) error {
	existing, err := c.store.FindArticles(ctx, store.ArticleFilter{})
	if err != nil {
		return fmt.Errorf("loading articles: %w", err)
	}
	byKey := make(map[string]types.Article, len(existing))
	for _, a := range existing {
		if k := types.LinkKey(a.Link); k != "" {
			if _, dup := byKey[k]; !dup {
				byKey[k] = a
			}
		}
	}

	seen := make(map[string]bool, len(existing))
	for cand := range candidates {
		c.observe(report, cand)

		key := types.LinkKey(types.Deref(cand.Get(types.FieldLink)))
		prev, ok := byKey[key]
		if key == "" || !ok || seen[prev.ID] {
			res := c.create(ctx, cand, logger)
			if res.ArticleID != "" {
				seen[res.ArticleID] = true
			}
			report.record(res)
			continue
		}
		seen[prev.ID] = true
		report.record(c.update(ctx, prev.ID, cand, logger))
	}

	for _, a := range existing {
		if seen[a.ID] || a.Saved {
			continue
		}
		if err := c.store.DeleteArticle(ctx, a.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			report.warn(fmt.Sprintf("removing stale article %s: %v", a.ID, err))
			continue
		}
		report.Removed++
	}
	return nil
}

func (c *Coordinator) update(ctx context.Context, id string, cand scraper.Candidate, logger *slog.Logger) RecordResult {
	fields := fieldsOf(cand)
	res := RecordResult{Index: cand.Index, Link: fields.Link, ArticleID: id, MissingFields: cand.Misses}

	if err := validate(cand); err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		logger.Warn("record rejected", "index", cand.Index, "error", err)
		return res
	}

	patch := types.ArticlePatch{
		Image:    fields.Image,
		Title:    fields.Title,
		Category: fields.Category,
		Summary:  fields.Summary,
	}
	if _, err := c.store.UpdateArticle(ctx, id, patch); err != nil {
		res.Status = StatusFailed
		res.Error = fmt.Sprintf("updating article: %v", err)
		logger.Warn("record not updated", "index", cand.Index, "article_id", id, "error", err)
		return res
	}
	res.Status = StatusUpdated
	return res
}

func (c *Coordinator) afterRun(ctx context.Context, report *Report, doc *scraper.Document, logger *slog.Logger) {
	if c.archiver != nil && doc != nil {
		if err := c.archiver.ArchiveRun(ctx, report, doc); err != nil {
			logger.Warn("archiving run failed", "error", err)
			report.warn(fmt.Sprintf("archive: %v", err))
		}
	}
	for _, p := range c.publishers {
		if err := p.PublishReport(ctx, report); err != nil {
			logger.Warn("publishing report failed", "error", err)
			report.warn(fmt.Sprintf("publish: %v", err))
		}
	}
}
