package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/openexam/quiz-service/internal/models"
)

// EventType identifies the kind of submission event
type EventType string

const (
	// EventSubmissionCompleted is published once per session that reaches
	// the Ended state and is persisted.
	EventSubmissionCompleted EventType = "submission.completed"
)

const (
	eventSource  = "quiz-service"
	eventVersion = "1.0"
)

// SubmissionEvent is the message published to the submission topic when a
// session ends.
type SubmissionEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	Username      string  `json:"username"`
	Section       string  `json:"section"`
	Score         float64 `json:"score"`
	Penalty       float64 `json:"penalty"`
	QuestionCount int     `json:"question_count"`
	CorrectCount  int     `json:"correct_count"`
	WrongCount    int     `json:"wrong_count"`
}

// NewSubmissionCompleted builds the event for a persisted submission
// payload.
func NewSubmissionCompleted(payload *models.SubmissionPayload) *SubmissionEvent {
	correct := 0
	wrong := 0
	for _, record := range payload.Responses {
		switch {
		case record.Correct:
			correct++
		case record.Response != "N/A":
			wrong++
		}
	}

	return &SubmissionEvent{
		ID:            uuid.NewString(),
		Type:          EventSubmissionCompleted,
		Source:        eventSource,
		Version:       eventVersion,
		Timestamp:     time.Now(),
		Username:      payload.Username,
		Section:       payload.Section,
		Score:         payload.Score,
		Penalty:       payload.Penalty,
		QuestionCount: len(payload.Responses),
		CorrectCount:  correct,
		WrongCount:    wrong,
	}
}
