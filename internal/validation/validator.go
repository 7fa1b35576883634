package validation

import (
	"regexp"
	"strings"

	"eduquiz/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateID validates a ULID path or body parameter.
func (v *Validator) ValidateID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationFailureError(field + " is required")
	}
	if !isValidULID(value) {
		return domain.NewValidationFailureError(field + " is not a valid identifier")
	}
	return nil
}

// ValidateSubmitAnswer validates an answer submission. Question indices are
// only checked for negativity here; out-of-range indices against the quiz are
// tolerated and resolved at scoring time.
func (v *Validator) ValidateSubmitAnswer(questionIndex, selectedOption int) error {
	if questionIndex < 0 {
		return domain.NewValidationFailureError("question_index must not be negative")
	}
	if selectedOption < 0 {
		return domain.NewValidationFailureError("selected_option must not be negative")
	}
	return nil
}

// ValidateCategory validates a category path parameter.
func (v *Validator) ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return domain.NewValidationFailureError("category is required")
	}
	if !isValidCategory(category) {
		return domain.NewValidationFailureError("category contains invalid characters")
	}
	return nil
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}

// isValidCategory allows alphanumerics, spaces, hyphens and underscores.
func isValidCategory(s string) bool {
	validCategory := regexp.MustCompile(`^[a-zA-Z0-9 _-]{1,100}$`)
	return validCategory.MatchString(s)
}
