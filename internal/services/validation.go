package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"warbler/internal/models"

	"github.com/go-playground/validator/v10"
)

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// validate reads the same `binding` tags gin checks when binding forms, so
// inputs built outside a request follow the same rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}

var fieldLabels = map[string]string{
	"Username":       "username",
	"Email":          "email",
	"Password":       "password",
	"ImageURL":       "image URL",
	"HeaderImageURL": "header image URL",
	"Bio":            "bio",
	"Location":       "location",
	"Text":           "message text",
}

// Validate checks v against its binding tags.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return ValidationError(err)
	}
	return nil
}

// ValidationError turns a validator or form binding failure into a
// VALIDATION AppError describing the first offending field.
func ValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.NewValidationError("invalid form submission")
	}

	fe := fieldErrs[0]
	label, ok := fieldLabels[fe.StructField()]
	if !ok {
		label = strings.ToLower(fe.Field())
	}

	switch fe.Tag() {
	case "required":
		return models.NewValidationError(label + " is required")
	case "email":
		return models.NewValidationError("invalid email format")
	case "min":
		return models.NewValidationError(fmt.Sprintf("%s must be at least %s characters long", label, fe.Param()))
	case "max":
		return models.NewValidationError(fmt.Sprintf("%s must not exceed %s characters", label, fe.Param()))
	}
	return models.NewValidationError(label + " is invalid")
}

// ValidateUsername checks the username alphabet. Presence and length are
// covered by binding tags.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return models.NewValidationError("username can only contain letters, numbers, dots, underscores, and hyphens")
	}
	return nil
}

// validatePasswordBytes rejects passwords bcrypt cannot hash. The max tag
// counts characters, not bytes.
func validatePasswordBytes(password string) error {
	if len(password) > maxPasswordBytes {
		return models.NewValidationError(fmt.Sprintf("password must not exceed %d bytes", maxPasswordBytes))
	}
	return nil
}

// ValidateMessageText trims text and checks it against MaxMessageLength.
func ValidateMessageText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.NewValidationError("message text is required")
	}
	if n := utf8.RuneCountInString(text); n > models.MaxMessageLength {
		return "", models.NewValidationError(fmt.Sprintf("message is %d characters, the limit is %d", n, models.MaxMessageLength))
	}
	return text, nil
}
