package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher defines the interface for publishing submission events
type EventPublisher interface {
	PublishSubmissionEvent(ctx context.Context, event *SubmissionEvent) error
	Close() error
}

// publish marshals the event and sends it as a Watermill message with
// standard metadata headers.
func publish(publisher message.Publisher, topic string, event *SubmissionEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal submission event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))

	return publisher.Publish(topic, msg)
}

// KafkaEventPublisher implements EventPublisher using Watermill with Kafka
type KafkaEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// KafkaConfig holds configuration for the Kafka event publisher
type KafkaConfig struct {
	Brokers   []string
	TopicName string
	Logger    *slog.Logger
}

// NewKafkaEventPublisher creates a new Kafka-based event publisher using Watermill
func NewKafkaEventPublisher(config KafkaConfig) (*KafkaEventPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.Brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, nil
}

// PublishSubmissionEvent publishes a submission event to Kafka
func (p *KafkaEventPublisher) PublishSubmissionEvent(ctx context.Context, event *SubmissionEvent) error {
	if err := publish(p.publisher, p.topicName, event); err != nil {
		p.logger.Error("Failed to publish submission event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish submission event: %w", err)
	}

	p.logger.Info("Published submission event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

// Close closes the publisher and releases resources
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// ChannelEventPublisher publishes submission events to an in-process
// Watermill GoChannel bus, so local subscribers (the score logger) run
// without a broker.
type ChannelEventPublisher struct {
	bus       *gochannel.GoChannel
	logger    *slog.Logger
	topicName string
}

// NewChannelBus creates the in-process pub/sub bus.
func NewChannelBus(logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
}

// NewChannelEventPublisher creates a publisher over an in-process bus.
func NewChannelEventPublisher(bus *gochannel.GoChannel, topicName string, logger *slog.Logger) *ChannelEventPublisher {
	return &ChannelEventPublisher{
		bus:       bus,
		logger:    logger,
		topicName: topicName,
	}
}

// PublishSubmissionEvent publishes a submission event on the in-process bus
func (p *ChannelEventPublisher) PublishSubmissionEvent(ctx context.Context, event *SubmissionEvent) error {
	if err := publish(p.bus, p.topicName, event); err != nil {
		p.logger.Error("Failed to publish submission event",
			"event_id", event.ID,
			"error", err)
		return fmt.Errorf("failed to publish submission event: %w", err)
	}

	p.logger.Debug("Published submission event",
		"event_id", event.ID,
		"topic", p.topicName)

	return nil
}

// Close closes the underlying bus
func (p *ChannelEventPublisher) Close() error {
	return p.bus.Close()
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	mu     sync.Mutex
	events []SubmissionEvent

	// FailWith, when set, is returned by every publish call.
	FailWith error

	Logger *slog.Logger
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]SubmissionEvent, 0),
		Logger: logger,
	}
}

// PublishSubmissionEvent stores the event in memory (for testing)
func (m *MockEventPublisher) PublishSubmissionEvent(ctx context.Context, event *SubmissionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}

	m.events = append(m.events, *event)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns all published events (for testing)
func (m *MockEventPublisher) GetPublishedEvents() []SubmissionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SubmissionEvent, len(m.events))
	copy(out, m.events)
	return out
}
