package quiz

import (
	"math/rand"

	"github.com/openexam/quiz-service/internal/models"
)

// Select picks a randomized subset of count questions from a section's
// question list. The source slice is never mutated; the permutation is an
// unbiased Fisher-Yates shuffle over a copy.
//
// When count exceeds the section size the full set is returned and
// truncated is true, so the caller can tell the user rather than silently
// mismatching the requested length.
func Select(questions []models.Question, count int) (picked []models.Question, truncated bool, err error) {
	if len(questions) == 0 {
		return nil, false, ErrInvalidSection
	}
	if count <= 0 {
		return nil, false, ErrInvalidSection
	}

	shuffled := make([]models.Question, len(questions))
	copy(shuffled, questions)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if count >= len(shuffled) {
		return shuffled, count > len(shuffled), nil
	}
	return shuffled[:count], false, nil
}
