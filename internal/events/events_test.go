package events

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/openexam/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func submissionPayload() *models.SubmissionPayload {
	return &models.SubmissionPayload{
		Username: "alice",
		Section:  "Physics",
		Score:    2,
		Penalty:  0.33,
		Responses: []models.ResponseRecord{
			{Question: "Q1", Response: "B", Correct: true},
			{Question: "Q2", Response: "A", Correct: false},
			{Question: "Q3", Response: "N/A", Correct: false},
		},
	}
}

func TestNewSubmissionCompleted(t *testing.T) {
	event := NewSubmissionCompleted(submissionPayload())

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventSubmissionCompleted, event.Type)
	assert.Equal(t, "quiz-service", event.Source)
	assert.Equal(t, "1.0", event.Version)
	assert.Equal(t, "alice", event.Username)
	assert.Equal(t, "Physics", event.Section)
	assert.Equal(t, 3, event.QuestionCount)

	// Skips are neither correct nor wrong.
	assert.Equal(t, 1, event.CorrectCount)
	assert.Equal(t, 1, event.WrongCount)
}

func TestChannelPublisherDeliversToSubscriber(t *testing.T) {
	logger := testLogger()
	bus := NewChannelBus(logger)
	defer bus.Close()

	publisher := NewChannelEventPublisher(bus, "quiz.submissions", logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, "quiz.submissions")
	require.NoError(t, err)

	event := NewSubmissionCompleted(submissionPayload())
	require.NoError(t, publisher.PublishSubmissionEvent(ctx, event))

	select {
	case msg := <-messages:
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventSubmissionCompleted), msg.Metadata.Get("event_type"))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the subscriber")
	}
}

type recordingScoreLog struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingScoreLog) Append(ctx context.Context, username string, score, wrong float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, username)
	return nil
}

func (r *recordingScoreLog) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

func TestScoreLogSubscriberAppendsPerEvent(t *testing.T) {
	logger := testLogger()
	bus := NewChannelBus(logger)
	defer bus.Close()

	scoreLog := &recordingScoreLog{}
	subscriber := NewScoreLogSubscriber(bus, "quiz.submissions", scoreLog, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = subscriber.Run(ctx)
	}()

	// Give the subscription a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	publisher := NewChannelEventPublisher(bus, "quiz.submissions", logger)
	require.NoError(t, publisher.PublishSubmissionEvent(ctx, NewSubmissionCompleted(submissionPayload())))

	require.Eventually(t, func() bool {
		return scoreLog.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMockPublisherRecordsEvents(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())

	require.NoError(t, mock.PublishSubmissionEvent(context.Background(), NewSubmissionCompleted(submissionPayload())))

	published := mock.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, "alice", published[0].Username)
}
