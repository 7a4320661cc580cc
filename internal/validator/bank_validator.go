package validator

import (
	"fmt"
	"strings"

	apperrors "github.com/internlink/assessment-service/internal/errors"
	"github.com/internlink/assessment-service/internal/models"
)

// BankValidator enforces the authoring rules for a question bank. All
// checks run before anything is persisted; a failing bank is rejected
// outright, never clamped or repaired.
type BankValidator struct{}

func NewBankValidator() *BankValidator {
	return &BankValidator{}
}

// ValidateBank checks the full authoring payload: scalar policy first,
// then every question. Errors accumulate so the author sees all problems
// in one round trip.
func (bv *BankValidator) ValidateBank(title, skill string, questions []models.Question, duration, passingScore, subsetSize int) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if strings.TrimSpace(title) == "" {
		errs = append(errs, *apperrors.NewValidationError("title", "is required", title))
	}

	if strings.TrimSpace(skill) == "" {
		errs = append(errs, *apperrors.NewValidationError("skill", "is required", skill))
	}

	if len(questions) == 0 {
		errs = append(errs, *apperrors.NewValidationError("questions", "must contain at least one question", len(questions)))
	}

	if duration <= 0 {
		errs = append(errs, *apperrors.NewValidationError("duration", "must be a positive number of minutes", duration))
	}

	if passingScore < 0 {
		errs = append(errs, *apperrors.NewValidationError("passing_score", "must not be negative", passingScore))
	}

	// A bank whose subset covers every question has no pool to draw from;
	// partial delivery requires 0 < subset_size < len(questions).
	if len(questions) > 0 {
		if subsetSize <= 0 {
			errs = append(errs, *apperrors.NewValidationError("subset_size", "must be greater than zero", subsetSize))
		} else if subsetSize >= len(questions) {
			errs = append(errs, *apperrors.NewValidationError("subset_size", "must be smaller than the number of questions", subsetSize))
		}
	}

	for i, q := range questions {
		errs = append(errs, bv.validateQuestion(i, q)...)
	}

	return errs
}

func (bv *BankValidator) validateQuestion(index int, q models.Question) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	field := func(name string) string {
		return fmt.Sprintf("questions[%d].%s", index, name)
	}

	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, *apperrors.NewValidationError(field("question"), "text is required", q.Text))
	}

	if len(q.Options) < 2 {
		errs = append(errs, *apperrors.NewValidationError(field("options"), "at least 2 options are required", len(q.Options)))
	} else if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		errs = append(errs, *apperrors.NewValidationError(field("correct_answer"), "must be a valid option index", q.CorrectAnswer))
	}

	switch q.Difficulty {
	case "", models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		errs = append(errs, *apperrors.NewValidationError(field("difficulty"), "must be easy, medium, or hard", string(q.Difficulty)))
	}

	return errs
}
