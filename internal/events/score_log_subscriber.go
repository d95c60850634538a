package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/openexam/quiz-service/internal/repositories"
)

// ScoreLogSubscriber consumes submission events from the in-process bus and
// appends a score line per finished session. Keeping the score log as an
// event consumer decouples it from the submission request path.
type ScoreLogSubscriber struct {
	bus      *gochannel.GoChannel
	topic    string
	scoreLog repositories.ScoreLogRepository
	logger   *slog.Logger
}

// NewScoreLogSubscriber creates the subscriber; Run must be called on its
// own goroutine.
func NewScoreLogSubscriber(bus *gochannel.GoChannel, topic string, scoreLog repositories.ScoreLogRepository, logger *slog.Logger) *ScoreLogSubscriber {
	return &ScoreLogSubscriber{
		bus:      bus,
		topic:    topic,
		scoreLog: scoreLog,
		logger:   logger,
	}
}

// Run consumes events until the context is cancelled or the bus closes.
func (s *ScoreLogSubscriber) Run(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	s.logger.Info("Score log subscriber started", "topic", s.topic)

	for msg := range messages {
		var event SubmissionEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			s.logger.Error("Invalid submission event payload",
				"message_id", msg.UUID,
				"error", err)
			msg.Ack()
			continue
		}

		if err := s.scoreLog.Append(ctx, event.Username, event.Score, event.Penalty); err != nil {
			s.logger.Error("Failed to append score line",
				"username", event.Username,
				"error", err)
		}

		msg.Ack()
	}

	return nil
}
