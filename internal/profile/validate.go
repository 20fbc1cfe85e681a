package profile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Accepts digits with an optional leading + and common separators,
// at least ten characters once separators are stripped.
var phoneRe = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)

// FieldError pins a validation failure to the profile field that caused it,
// so the caller can point the user at the offending input.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every violation found in one pass; the
// assessment session must not open while any remain.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "profile validation failed: " + strings.Join(msgs, "; ")
}

// First returns the first offending field, mirroring the UI behavior of
// scrolling the first error into view.
func (e *ValidationError) First() FieldError {
	if len(e.Fields) == 0 {
		return FieldError{}
	}
	return e.Fields[0]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// validator has no builtin for free-form phone numbers.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value := strings.ReplaceAll(fl.Field().String(), " ", "")
		return phoneRe.MatchString(value)
	})
	return v
}

var fieldMessages = map[string]string{
	"PersonalInfo.Name":                      "name is required",
	"PersonalInfo.Location":                  "location is required",
	"PersonalInfo.Email":                     "a valid email address is required",
	"PersonalInfo.Phone":                     "a valid phone number is required",
	"PersonalInfo.Languages":                 "at least one language is required",
	"ProfessionalSummary.CurrentRole":        "current role is required",
	"ProfessionalSummary.YearsOfExperience":  "years of experience is required",
	"ProfessionalSummary.Industries":         "at least one industry is required",
	"ProfessionalSummary.NotableCompanies":   "at least one notable company is required",
}

// Validate checks the profile against the rules the assessment gate
// enforces. It returns nil or a *ValidationError listing every violation in
// struct field order.
func (p *Profile) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate profile: %w", err)
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		// Namespace is Profile.PersonalInfo.Email; strip the root.
		field := strings.TrimPrefix(fe.Namespace(), "Profile.")
		msg, ok := fieldMessages[field]
		if !ok {
			msg = fmt.Sprintf("failed %s validation", fe.Tag())
		}
		ve.Fields = append(ve.Fields, FieldError{Field: field, Message: msg})
	}

	return ve
}
