package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openexam/quiz-service/internal/models"
)

// Assemble converts a frozen session into the external-facing submission
// payload: one immutable record per question plus session metadata. It is
// valid only after the session has ended and only once; the assembler
// performs no I/O.
func (s *Session) Assemble() (*models.SubmissionPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionEnded {
		return nil, ErrInvalidTransition
	}
	if s.assembled {
		return nil, ErrAlreadyAssembled
	}
	s.assembled = true

	records := make([]models.ResponseRecord, len(s.questions))
	for i, q := range s.questions {
		resp := s.responses[i]

		record := models.ResponseRecord{
			Question:            q.Prompt,
			QuestionImage:       q.PromptImage,
			Comprehension:       q.Comprehension,
			Type:                q.Type,
			CorrectAnswer:       correctAnswerText(q),
			Response:            responseText(q, resp),
			Correct:             resp.IsCorrect,
			ResponseTimeSeconds: resp.TimeSpentSeconds,
			Comment:             resp.Comment,
			Weightage:           q.Marks,
		}

		switch q.Type {
		case models.SingleChoice:
			record.Options = q.Choices
			record.CorrectIndex = q.CorrectChoice
		case models.MultiSelect:
			record.Options = q.Choices
		case models.NumericRange:
			if q.CorrectRange != nil {
				bounds := q.CorrectRange.Normalized()
				record.RangeLow = &bounds.Low
				record.RangeHigh = &bounds.High
			}
		}

		records[i] = record
	}

	return &models.SubmissionPayload{
		Username:      s.username,
		Section:       s.section,
		ExamStartTime: s.startedAt,
		SubmitTime:    s.endedAt,
		Score:         s.score,
		Penalty:       s.penalty,
		Responses:     records,
	}, nil
}

// correctAnswerText renders the canonical correct answer for the record.
func correctAnswerText(q models.Question) string {
	switch q.Type {
	case models.SingleChoice:
		if q.CorrectChoice != nil {
			return choiceText(q, *q.CorrectChoice)
		}
	case models.MultiSelect:
		parts := make([]string, 0, len(q.CorrectChoices))
		for _, idx := range q.CorrectChoices {
			parts = append(parts, choiceText(q, idx))
		}
		return strings.Join(parts, "; ")
	case models.NumericRange:
		if q.CorrectRange != nil {
			bounds := q.CorrectRange.Normalized()
			return fmt.Sprintf("%s to %s",
				strconv.FormatFloat(bounds.Low, 'f', -1, 64),
				strconv.FormatFloat(bounds.High, 'f', -1, 64))
		}
	}
	return ""
}

// responseText renders the user's submitted value. Skipped questions carry
// the same placeholder the original results store used.
func responseText(q models.Question, resp models.Response) string {
	if resp.State != models.ResponseAnswered || resp.Value.IsZero() {
		return "N/A"
	}

	switch q.Type {
	case models.SingleChoice:
		if resp.Value.Choice != nil {
			return choiceText(q, *resp.Value.Choice)
		}
	case models.MultiSelect:
		parts := make([]string, 0, len(resp.Value.Choices))
		for _, idx := range resp.Value.Choices {
			parts = append(parts, choiceText(q, idx))
		}
		return strings.Join(parts, "; ")
	case models.NumericRange:
		return resp.Value.Numeric
	}
	return "N/A"
}

func choiceText(q models.Question, idx int) string {
	if idx < 0 || idx >= len(q.Choices) {
		return fmt.Sprintf("Option %d", idx+1)
	}
	choice := q.Choices[idx]
	if choice.Text != "" {
		return choice.Text
	}
	if choice.ImageURL != "" {
		return choice.ImageURL
	}
	return fmt.Sprintf("Option %d", idx+1)
}
