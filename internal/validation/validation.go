package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/temcen/taskhub/pkg/models"
)

// Register installs the custom rules on gin's binding validator. Called once
// at startup; registration errors mean a programming mistake, not bad input.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("taskstatus", validTaskStatus); err != nil {
		return fmt.Errorf("failed to register taskstatus rule: %w", err)
	}
	if err := v.RegisterValidation("taskpriority", validTaskPriority); err != nil {
		return fmt.Errorf("failed to register taskpriority rule: %w", err)
	}
	if err := v.RegisterValidation("password", validPassword); err != nil {
		return fmt.Errorf("failed to register password rule: %w", err)
	}
	return nil
}

func validTaskStatus(fl validator.FieldLevel) bool {
	return models.TaskStatus(fl.Field().String()).Valid()
}

func validTaskPriority(fl validator.FieldLevel) bool {
	return models.TaskPriority(fl.Field().String()).Valid()
}

// validPassword requires at least one letter and one digit; length is
// enforced separately by the min tag.
func validPassword(fl validator.FieldLevel) bool {
	var hasLetter, hasDigit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// MessageFor turns a binding error into one user-facing message, joining
// per-field messages with ". ".
func MessageFor(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body."
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, ". ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Valid email is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "password":
		return "Password must contain at least one letter and one number"
	case "taskstatus":
		return "Invalid status"
	case "taskpriority":
		return "Invalid priority"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
