package events

import (
	"context"
	"encoding/json"
	"fmt"

	"newsnotes/ingest"

	"github.com/IBM/sarama"
)

// ReportPublisher publishes run reports keyed by run id
type ReportPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewReportPublisher connects a synchronous producer to brokers
func NewReportPublisher(brokers []string, topic string) (*ReportPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3

	p, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating producer: %w", err)
	}
	return NewReportPublisherWithProducer(p, topic), nil
}

// NewReportPublisherWithProducer wraps an existing producer
func NewReportPublisherWithProducer(p sarama.SyncProducer, topic string) *ReportPublisher {
	return &ReportPublisher{producer: p, topic: topic}
}

// PublishReport sends the report as JSON
func (p *ReportPublisher) PublishReport(ctx context.Context, report *ingest.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(report.RunID),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("sending report %s: %w", report.RunID, err)
	}
	return nil
}

// Close flushes and closes the producer
func (p *ReportPublisher) Close() error {
	return p.producer.Close()
}
