// Package inputval validates decoded request structs with struct tags.
//
//	type createOrgInput struct {
//	    Name string `validate:"required,max=200" label:"Site name"`
//	}
//
// The label tag names the field in messages; the Go field name is used when
// it is missing.
package inputval

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
		return f.Name
	})
	return v
}

// Result is the outcome of Validate.
type Result struct {
	Messages []string
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Messages) > 0 }

// First returns the first failure message, or "".
func (r Result) First() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0]
}

// Error joins every message.
func (r Result) Error() string { return strings.Join(r.Messages, " ") }

// Validate runs the struct's validate tags.
func Validate(s any) Result {
	err := validate.Struct(s)
	if err == nil {
		return Result{}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Messages: []string{err.Error()}}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return Result{Messages: msgs}
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return name + " must be a valid email address."
	}
	return fmt.Sprintf("%s is invalid (%s).", name, fe.Tag())
}

// IsValidEmail reports whether s is a bare address (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	local, domain := s[:at], s[at+1:]
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}
