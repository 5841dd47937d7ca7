// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	ErrInvalidMode         = errors.New("INGEST_MODE must be 'replace' or 'reconcile'")
	ErrInvalidMaxBodyBytes = errors.New("MAX_BODY_BYTES must be a positive integer")
)

// Config is the complete service configuration
type Config struct {
	Port      string
	LogLevel  string
	Source    string
	Mode      string
	UserAgent string
	// MaxBodyBytes is 0 when the fetcher default applies
	MaxBodyBytes int64
	RulesFile    string

	Redis RedisConfig
	S3    S3Config
	Kafka KafkaConfig
}

// RedisConfig selects the Redis store. Empty URL means the in-memory store.
type RedisConfig struct {
	URL    string
	Prefix string
}

// S3Config enables snapshot archiving when Bucket is set
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	Endpoint     string
	UsePathStyle bool
}

// KafkaConfig enables the request consumer and report publisher when Brokers is set
type KafkaConfig struct {
	Brokers      []string
	RequestTopic string
	ReportTopic  string
	GroupID      string
}

// Enabled reports whether brokers are configured
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// Load reads .env if present, then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:      GetEnvOrDefault("PORT", DefaultPort),
		LogLevel:  GetEnvOrDefault("LOG_LEVEL", "info"),
		Source:    ResolveSourceURL(GetEnvOrDefault("SOURCE_URL", DefaultSourcePreset)),
		Mode:      strings.ToLower(GetEnvOrDefault("INGEST_MODE", DefaultIngestMode)),
		UserAgent: strings.TrimSpace(os.Getenv("USER_AGENT")),
		RulesFile: strings.TrimSpace(os.Getenv("RULES_FILE")),
		Redis: RedisConfig{
			URL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
			Prefix: GetEnvOrDefault("REDIS_PREFIX", DefaultRedisPrefix),
		},
		S3: S3Config{
			Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
			Prefix:       strings.TrimSpace(os.Getenv("S3_PREFIX")),
			Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
			Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
			Endpoint:     strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(os.Getenv("KAFKA_BROKERS")),
			RequestTopic: GetEnvOrDefault("KAFKA_REQUEST_TOPIC", DefaultRequestTopic),
			ReportTopic:  GetEnvOrDefault("KAFKA_REPORT_TOPIC", DefaultReportTopic),
			GroupID:      GetEnvOrDefault("KAFKA_GROUP_ID", DefaultConsumerGroup),
		},
	}

	if cfg.Mode != "replace" && cfg.Mode != "reconcile" {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMode, cfg.Mode)
	}

	if v := strings.TrimSpace(os.Getenv("MAX_BODY_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidMaxBodyBytes, v)
		}
		cfg.MaxBodyBytes = n
	}
	return cfg, nil
}

// GetEnvOrDefault returns the trimmed variable, or def when unset or blank
func GetEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
