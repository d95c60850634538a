package models

// QuestionType discriminates the answer/grading variant of a question.
type QuestionType string

const (
	SingleChoice QuestionType = "SingleChoice"
	MultiSelect  QuestionType = "MultiSelect"
	NumericRange QuestionType = "NumericRange"
)

// Choice is one answer option of a choice-type question.
type Choice struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// NumericBounds is the accepted answer interval of a NumericRange question,
// inclusive on both ends.
type NumericBounds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Normalized returns the bounds with Low <= High regardless of input order.
func (b NumericBounds) Normalized() NumericBounds {
	if b.Low > b.High {
		return NumericBounds{Low: b.High, High: b.Low}
	}
	return b
}

// Contains reports whether v lies inside the normalized bounds.
func (b NumericBounds) Contains(v float64) bool {
	n := b.Normalized()
	return v >= n.Low && v <= n.High
}

// Question is one assessment item. Exactly one of CorrectChoice,
// CorrectChoices and CorrectRange is populated, matching Type; the
// question validator enforces this at load time.
type Question struct {
	ID            int          `json:"id"`
	Type          QuestionType `json:"type" validate:"required,question_type"`
	Prompt        string       `json:"prompt"`
	PromptImage   string       `json:"prompt_image,omitempty"`
	Comprehension string       `json:"comprehension,omitempty"`

	Choices []Choice `json:"choices,omitempty" validate:"max=4"`

	CorrectChoice  *int           `json:"correct_choice,omitempty"`
	CorrectChoices []int          `json:"correct_choices,omitempty"`
	CorrectRange   *NumericBounds `json:"correct_range,omitempty"`

	Marks float64 `json:"marks" validate:"gt=0"`
}

// SectionInfo is the listing shape of a section: name and size, without
// question bodies.
type SectionInfo struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// Section is a named, ordered group of questions from the question bank.
type Section struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}
