package common

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %+v", e.Errors)
}

// NewValidationError returns a ValidationError holding a single field message.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Errors: map[string]string{field: message}}
}

type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) CheckStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (v *Validator) ValidationError() error {
	return ValidationError{Errors: v.Errors}
}

func PermittedValue[T comparable](value T, permitted ...T) bool {
	for _, p := range permitted {
		if value == p {
			return true
		}
	}

	return false
}

func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ValidURL accepts absolute http and https URLs.
func ValidURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func ValidateEmail(v *Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}

func ValidateID(v *Validator, id int, name string) {
	v.Check(id > 0, name, "must be greater than zero")
}
