package services

import (
	"errors"

	apperrors "github.com/openexam/quiz-service/internal/errors"
	"github.com/openexam/quiz-service/internal/quiz"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Section / question errors
	ErrSectionNotFound   = errors.New("section not found")
	ErrInvalidSection    = quiz.ErrInvalidSection
	ErrMalformedQuestion = errors.New("question record missing required type-specific fields")

	// Session errors
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionEnded            = errors.New("session already ended")
	ErrInvalidTransition       = quiz.ErrInvalidTransition
	ErrQuestionAlreadyAnswered = quiz.ErrAlreadyAnswered
	ErrQuestionIndexOutOfRange = quiz.ErrIndexOutOfRange

	// Results errors
	ErrAttemptNotFound = errors.New("attempt not found")

	// ErrSubmissionTransport marks a persistence/transport failure at the
	// submission boundary. The ended session and its score survive it.
	ErrSubmissionTransport = errors.New("submission could not be delivered to the results store")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrAttemptNotFound)
}

// IsInvalidTransition checks if error represents a rejected state-machine
// operation
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrSessionEnded) ||
		errors.Is(err, ErrQuestionIndexOutOfRange)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrInvalidSection) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}
