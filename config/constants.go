package config

import "time"

// Server defaults
const (
	// DefaultPort is the HTTP listen port
	DefaultPort = "3000"

	// ShutdownTimeout bounds graceful HTTP shutdown
	ShutdownTimeout = 10 * time.Second
)

// Source defaults
const (
	// DefaultSourcePreset is scraped when no source is given
	DefaultSourcePreset = "npr"

	// DefaultIngestMode is "replace" or "reconcile"
	DefaultIngestMode = "replace"
)

// Storage defaults
const (
	// DefaultRedisPrefix namespaces every Redis key
	DefaultRedisPrefix = "newsnotes"
)

// Kafka defaults
const (
	// DefaultRequestTopic carries on-demand ingest requests
	DefaultRequestTopic = "newsnotes.ingest.requests"

	// DefaultReportTopic receives a report per finished run
	DefaultReportTopic = "newsnotes.ingest.reports"

	// DefaultConsumerGroup is the request consumer group id
	DefaultConsumerGroup = "newsnotes"
)
