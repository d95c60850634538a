package handlers

import (
	"time"

	"github.com/openexam/quiz-service/internal/models"
	"github.com/openexam/quiz-service/internal/quiz"
)

// QuestionView is the wire shape of a question with the answer key stripped.
// Grading happens server side; clients never see correct answers mid-session.
type QuestionView struct {
	ID            int                 `json:"id"`
	Type          models.QuestionType `json:"type"`
	Prompt        string              `json:"prompt"`
	PromptImage   string              `json:"prompt_image,omitempty"`
	Comprehension string              `json:"comprehension,omitempty"`
	Choices       []models.Choice     `json:"choices,omitempty"`
	Marks         float64             `json:"marks"`
}

func newQuestionView(q models.Question) QuestionView {
	return QuestionView{
		ID:            q.ID,
		Type:          q.Type,
		Prompt:        q.Prompt,
		PromptImage:   q.PromptImage,
		Comprehension: q.Comprehension,
		Choices:       q.Choices,
		Marks:         q.Marks,
	}
}

func newQuestionViews(questions []models.Question) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		views[i] = newQuestionView(q)
	}
	return views
}

// SessionView is the wire shape of a session snapshot.
type SessionView struct {
	ID               string               `json:"id"`
	Username         string               `json:"username"`
	Section          string               `json:"section"`
	Status           models.SessionStatus `json:"status"`
	CurrentIndex     int                  `json:"current_index"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Score            float64              `json:"score"`
	Penalty          float64              `json:"penalty"`
	NetScore         float64              `json:"net_score"`
	QuestionCount    int                  `json:"question_count"`
	Questions        []QuestionView       `json:"questions"`
	Responses        []models.Response    `json:"responses"`
	StartedAt        time.Time            `json:"started_at"`
	EndedAt          *time.Time           `json:"ended_at,omitempty"`
}

func newSessionView(snap *quiz.Snapshot) SessionView {
	return SessionView{
		ID:               snap.ID,
		Username:         snap.Username,
		Section:          snap.Section,
		Status:           snap.Status,
		CurrentIndex:     snap.CurrentIndex,
		RemainingSeconds: snap.RemainingSeconds,
		Score:            snap.Score,
		Penalty:          snap.Penalty,
		NetScore:         snap.NetScore,
		QuestionCount:    snap.QuestionCount,
		Questions:        newQuestionViews(snap.Questions),
		Responses:        snap.Responses,
		StartedAt:        snap.StartedAt,
		EndedAt:          snap.EndedAt,
	}
}
