package validator

import (
	"fmt"

	"github.com/openexam/quiz-service/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object. A question must
// carry exactly one correct-answer field, matching its type; violations are
// what the loader reports as malformed rows.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.Prompt == "" && question.PromptImage == "" {
		return fmt.Errorf("question must have prompt text or a prompt image")
	}

	if question.Marks <= 0 {
		return fmt.Errorf("question marks must be positive")
	}

	if err := v.validateAnswerKey(question); err != nil {
		return err
	}

	switch question.Type {
	case models.SingleChoice:
		return v.validateSingleChoice(question)
	case models.MultiSelect:
		return v.validateMultiSelect(question)
	case models.NumericRange:
		return v.validateNumericRange(question)
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

// validateAnswerKey enforces the exactly-one-correct-answer-field invariant.
func (v *QuestionValidator) validateAnswerKey(question *models.Question) error {
	populated := 0
	if question.CorrectChoice != nil {
		populated++
	}
	if len(question.CorrectChoices) > 0 {
		populated++
	}
	if question.CorrectRange != nil {
		populated++
	}

	if populated != 1 {
		return fmt.Errorf("question must populate exactly one correct-answer field, got %d", populated)
	}
	return nil
}

func (v *QuestionValidator) validateSingleChoice(question *models.Question) error {
	if question.CorrectChoice == nil {
		return fmt.Errorf("SingleChoice question requires a correct choice index")
	}
	if len(question.Choices) < 2 {
		return fmt.Errorf("SingleChoice question requires at least 2 choices, got %d", len(question.Choices))
	}
	if len(question.Choices) > 4 {
		return fmt.Errorf("SingleChoice question allows at most 4 choices, got %d", len(question.Choices))
	}
	if idx := *question.CorrectChoice; idx < 0 || idx >= len(question.Choices) {
		return fmt.Errorf("correct choice index %d out of range [0,%d)", idx, len(question.Choices))
	}
	return nil
}

func (v *QuestionValidator) validateMultiSelect(question *models.Question) error {
	if len(question.CorrectChoices) == 0 {
		return fmt.Errorf("MultiSelect question requires a correct choice index set")
	}
	if len(question.Choices) < 2 {
		return fmt.Errorf("MultiSelect question requires at least 2 choices, got %d", len(question.Choices))
	}
	if len(question.Choices) > 4 {
		return fmt.Errorf("MultiSelect question allows at most 4 choices, got %d", len(question.Choices))
	}

	seen := make(map[int]bool, len(question.CorrectChoices))
	for _, idx := range question.CorrectChoices {
		if idx < 0 || idx >= len(question.Choices) {
			return fmt.Errorf("correct choice index %d out of range [0,%d)", idx, len(question.Choices))
		}
		if seen[idx] {
			return fmt.Errorf("duplicate correct choice index %d", idx)
		}
		seen[idx] = true
	}
	return nil
}

func (v *QuestionValidator) validateNumericRange(question *models.Question) error {
	if question.CorrectRange == nil {
		return fmt.Errorf("NumericRange question requires an accepted range")
	}
	if len(question.Choices) > 0 {
		return fmt.Errorf("NumericRange question must not carry choices")
	}
	return nil
}
