package config

import (
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/openexam/quiz-service/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled      bool
	Publisher    string // kafka, channel or mock
	KafkaBrokers string
	Topic        string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration.
// In channel mode the returned bus is non-nil and in-process subscribers
// (the score logger) attach to it; in kafka mode downstream consumers run
// outside this process and the bus is nil.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, *gochannel.GoChannel, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil, nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.Topic)

		publisher, err := events.NewKafkaEventPublisher(events.KafkaConfig{
			Brokers:   c.GetKafkaBrokers(),
			TopicName: c.Topic,
			Logger:    logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return publisher, nil, nil
	case "channel":
		logger.Info("Creating in-process event publisher", "topic", c.Topic)

		bus := events.NewChannelBus(logger)
		return events.NewChannelEventPublisher(bus, c.Topic, logger), bus, nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil, nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil, nil
	}
}
