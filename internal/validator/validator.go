package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/openexam/quiz-service/internal/errors"
	"github.com/openexam/quiz-service/internal/models"
)

// Validator is the single validation entry point: struct tags plus
// per-type question rules.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Validate performs complete validation. For *models.Question values the
// per-type question rules run after the struct tags.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	if q, ok := s.(*models.Question); ok {
		return v.questionValidator.ValidateQuestion(q)
	}

	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("response_state", validateResponseState)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.SingleChoice,
		models.MultiSelect,
		models.NumericRange,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateResponseState(fl validator.FieldLevel) bool {
	validStates := []models.ResponseState{
		models.ResponseUnvisited,
		models.ResponseVisited,
		models.ResponseAnswered,
		models.ResponseSkipped,
	}

	value := fl.Field().String()
	for _, validState := range validStates {
		if string(validState) == value {
			return true
		}
	}
	return false
}
