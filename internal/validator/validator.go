package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/internlink/assessment-service/internal/errors"
	"github.com/internlink/assessment-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator bundles struct-tag validation with the bank authoring rules
// that tags cannot express (cross-field checks like correct answer bounds).
type Validator struct {
	structValidator *validator.Validate
	bankValidator   *BankValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		bankValidator:   NewBankValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures into the
// shared ValidationErrors shape.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Bank returns the authoring-rule validator for question banks.
func (v *Validator) Bank() *BankValidator {
	return v.bankValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("user_role", validateUserRole)

	// Report json field names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.DifficultyLevel{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStudent,
		models.RoleCompany,
		models.RoleAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}
