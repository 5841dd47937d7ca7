// Package app assembles the store, pipeline and optional side channels from config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"newsnotes/archive"
	"newsnotes/config"
	"newsnotes/events"
	"newsnotes/ingest"
	"newsnotes/metrics"
	"newsnotes/scraper"
	"newsnotes/store"
)

// App holds the long-lived components
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Store       store.Store
	Fetcher     *scraper.Fetcher
	Reader      *scraper.Reader
	Coordinator *ingest.Coordinator
	Archiver    *archive.Archiver
	Publisher   *events.ReportPublisher
	Metrics     *metrics.Recorder

	closers []func() error
}

// New builds the application. Redis, S3 and Kafka are used only when configured.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	st, err := openStore(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, err
	}
	a.Store = st
	a.closers = append(a.closers, st.Close)

	rules := scraper.NPRRules
	if cfg.RulesFile != "" {
		if rules, err = scraper.LoadRuleSet(cfg.RulesFile); err != nil {
			a.Close()
			return nil, fmt.Errorf("loading rules: %w", err)
		}
	}
	html, err := scraper.NewHTMLExtractor(rules, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid rule set %q: %w", rules.Name, err)
	}

	fopts := []scraper.FetcherOption{scraper.WithLogger(logger)}
	if cfg.UserAgent != "" {
		fopts = append(fopts, scraper.WithUserAgent(cfg.UserAgent))
	}
	if cfg.MaxBodyBytes > 0 {
		fopts = append(fopts, scraper.WithMaxBodyBytes(cfg.MaxBodyBytes))
	}
	a.Fetcher = scraper.NewFetcher(fopts...)
	a.Reader = scraper.NewReader(a.Fetcher)

	a.Metrics = metrics.NewRecorder()
	opts := []ingest.Option{
		ingest.WithMode(ingest.ParseMode(cfg.Mode)),
		ingest.WithLogger(logger),
		ingest.WithPublisher(a.Metrics),
	}

	if cfg.S3.Bucket != "" {
		s3c, err := archive.NewS3(ctx, archive.S3Config{
			Region:       cfg.S3.Region,
			Profile:      cfg.S3.Profile,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			logger.Warn("S3 unavailable, archiving disabled", "error", err)
		} else {
			a.Archiver = archive.New(s3c, cfg.S3.Bucket, cfg.S3.Prefix)
			opts = append(opts, ingest.WithArchiver(a.Archiver))
			logger.Info("archiving runs", "bucket", cfg.S3.Bucket, "prefix", cfg.S3.Prefix)
		}
	}

	if cfg.Kafka.Enabled() {
		pub, err := events.NewReportPublisher(cfg.Kafka.Brokers, cfg.Kafka.ReportTopic)
		if err != nil {
			logger.Warn("Kafka unavailable, report publishing disabled", "error", err)
		} else {
			a.Publisher = pub
			a.closers = append(a.closers, pub.Close)
			opts = append(opts, ingest.WithPublisher(pub))
			logger.Info("publishing reports", "topic", cfg.Kafka.ReportTopic)
		}
	}

	a.Coordinator = ingest.New(a.Store, a.Fetcher, &scraper.AutoExtractor{HTML: html}, opts...)
	return a, nil
}

func openStore(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (store.Store, error) {
	if cfg.URL == "" {
		logger.Info("using in-memory store")
		return store.NewMemory(), nil
	}
	st, err := store.NewRedis(ctx, cfg.URL, cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("opening redis store: %w", err)
	}
	logger.Info("using redis store", "prefix", cfg.Prefix)
	return st, nil
}

// StartConsumer subscribes to ingest requests when Kafka is configured.
// It returns nil, nil otherwise.
func (a *App) StartConsumer(ctx context.Context) (*events.Consumer, error) {
	k := a.Config.Kafka
	if !k.Enabled() {
		return nil, nil
	}
	c, err := events.NewConsumer(events.ConsumerConfig{
		Brokers: k.Brokers,
		Topic:   k.RequestTopic,
		GroupID: k.GroupID,
		Handler: events.NewIngestRequestHandler(a.Coordinator, a.Config.Source, a.Logger),
		Logger:  a.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating consumer: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("starting consumer: %w", err)
	}
	a.closers = append(a.closers, c.Close)
	return c, nil
}

// Close releases components in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
