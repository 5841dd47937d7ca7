// Package events carries ingestion requests and run reports over Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/cenkalti/backoff/v5"
)

// MessageHandler processes one consumed message.
// A returned error or shouldMark=false leaves the offset unmarked so it is redelivered.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer runs a consumer group over one topic
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	topic   string
	groupID string
	logger  *slog.Logger
	ready   chan struct{}
	backoff backoff.BackOff
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
	Logger  *slog.Logger
}

// NewConsumer creates a consumer group client
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}
	return newConsumer(group, cfg), nil
}

func newConsumer(group sarama.ConsumerGroup, cfg ConsumerConfig) *Consumer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		group:   group,
		handler: cfg.Handler,
		topic:   cfg.Topic,
		groupID: cfg.GroupID,
		logger:  logger.With("component", "kafka-consumer", "topic", cfg.Topic),
		ready:   make(chan struct{}),
		backoff: newRetryBackoff(),
	}
}

// newRetryBackoff spaces out Consume retries while the cluster is unavailable
func newRetryBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = time.Minute
	bo.Multiplier = 2
	return bo
}

// Start consumes in the background and returns immediately. Failed sessions
// are retried with exponential backoff until ctx ends or the consumer is closed.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &groupHandler{
		handler: c.handler,
		logger:  c.logger,
		ready:   c.ready,
	}

	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("consumer error", "error", err)
		}
	}()

	go func() {
		select {
		case <-c.ready:
			c.logger.Info("consumer started", "group", c.groupID)
		case <-ctx.Done():
		}
	}()

	go c.consume(ctx, handler)
	return nil
}

// Ready is closed once the first session has been set up
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

func (c *Consumer) consume(ctx context.Context, handler *groupHandler) {
	for {
		err := c.group.Consume(ctx, []string{c.topic}, handler)
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup):
			c.logger.Info("consumer stopped")
			return
		case err != nil:
			delay := c.backoff.NextBackOff()
			c.logger.Error("consume failed", "error", err, "retry_in", delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		default:
			c.backoff.Reset()
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Close shuts the consumer group down
func (c *Consumer) Close() error {
	c.logger.Info("closing consumer")
	return c.group.Close()
}

type groupHandler struct {
	handler MessageHandler
	logger  *slog.Logger
	ready   chan struct{}
	once    sync.Once
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.once.Do(func() { close(h.ready) })
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			h.logger.Debug("message received",
				"partition", message.Partition, "offset", message.Offset, "key", string(message.Key))

			shouldMark, err := h.handler.HandleMessage(session.Context(), message.Value)
			if err != nil {
				h.logger.Error("message handling failed", "offset", message.Offset, "error", err)
			}
			if shouldMark {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// TypedMessageHandler decodes JSON messages into T before processing them
type TypedMessageHandler[T any] struct {
	// Validate reports whether the message should be processed
	Validate func(msg *T) bool
	// Process handles the decoded message
	Process func(ctx context.Context, msg *T) error
	// AlwaysMark marks undecodable or invalid messages so they are skipped
	AlwaysMark bool
	Logger     *slog.Logger
}

// HandleMessage implements MessageHandler
func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		h.log().Warn("dropping undecodable message", "error", err)
		return h.AlwaysMark, nil
	}
	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}
	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}
	return true, nil
}

func (h *TypedMessageHandler[T]) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
