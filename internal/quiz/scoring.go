package quiz

import (
	"strconv"
	"strings"

	"github.com/openexam/quiz-service/internal/models"
)

// DefaultPenaltyRate is the fraction of a question's marks deducted for an
// incorrect, non-skipped answer.
const DefaultPenaltyRate = 0.33

// Verdict is the outcome of grading one candidate answer. ScoreDelta is the
// positive contribution for a correct answer; PenaltyDelta the deduction for
// an incorrect one. At most one of the two is non-zero.
type Verdict struct {
	Correct      bool
	ScoreDelta   float64
	PenaltyDelta float64
}

// Scorer grades candidate answers. It is pure and stateless; the penalty
// rate is configuration, not a constant baked into the grading rules.
type Scorer struct {
	PenaltyRate float64
}

// NewScorer creates a scorer with the given penalty rate. Rates below zero
// fall back to the default.
func NewScorer(penaltyRate float64) Scorer {
	if penaltyRate < 0 {
		penaltyRate = DefaultPenaltyRate
	}
	return Scorer{PenaltyRate: penaltyRate}
}

// Grade maps a question and a candidate value to a verdict. A zero value is
// the skip sentinel: never correct, never penalized.
func (s Scorer) Grade(q models.Question, value models.AnswerValue) Verdict {
	if value.IsZero() {
		return Verdict{}
	}

	correct := s.isCorrect(q, value)
	if correct {
		return Verdict{Correct: true, ScoreDelta: q.Marks}
	}
	return Verdict{PenaltyDelta: s.PenaltyRate * q.Marks}
}

func (s Scorer) isCorrect(q models.Question, value models.AnswerValue) bool {
	switch q.Type {
	case models.SingleChoice:
		return q.CorrectChoice != nil &&
			value.Choice != nil &&
			*value.Choice == *q.CorrectChoice

	case models.MultiSelect:
		return sameIndexSet(value.Choices, q.CorrectChoices)

	case models.NumericRange:
		if q.CorrectRange == nil {
			return false
		}
		candidate, err := strconv.ParseFloat(strings.TrimSpace(value.Numeric), 64)
		if err != nil {
			// Non-numeric input is an incorrect answer, not an error.
			return false
		}
		return q.CorrectRange.Contains(candidate)

	default:
		return false
	}
}

// sameIndexSet compares two index sets order-independently. No partial
// credit: anything short of exact equality is incorrect.
func sameIndexSet(candidate, correct []int) bool {
	if len(candidate) == 0 || len(correct) == 0 {
		return false
	}

	want := make(map[int]bool, len(correct))
	for _, idx := range correct {
		want[idx] = true
	}

	got := make(map[int]bool, len(candidate))
	for _, idx := range candidate {
		got[idx] = true
	}

	if len(got) != len(want) {
		return false
	}
	for idx := range want {
		if !got[idx] {
			return false
		}
	}
	return true
}
