// Package validation wraps go-playground/validator with the rules and error
// shape shared by the content and RSVP payloads.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Details mirrors the flattened error shape returned to API clients.
type Details struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// Error is returned by Struct when a payload fails validation.
type Error struct {
	Details Details
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Details.FieldErrors)+len(e.Details.FormErrors))
	parts = append(parts, e.Details.FormErrors...)
	for field, msgs := range e.Details.FieldErrors {
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return "invalid data: " + strings.Join(parts, "; ")
}

// Validator validates structs using json field names in error paths.
type Validator struct {
	v        *validator.Validate
	messages map[string]string
}

// New returns a validator with the custom tags registered. messages maps a
// tag to the message reported for it; unknown tags get a generic message.
func New(messages map[string]string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return hexColorRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("minrunes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(fl.Field().String()) >= n
	})
	return &Validator{v: v, messages: messages}
}

// Struct validates s and returns *Error on failure.
func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Details: Details{FormErrors: []string{err.Error()}, FieldErrors: map[string][]string{}}}
	}
	details := Details{FormErrors: []string{}, FieldErrors: make(map[string][]string)}
	for _, fe := range fieldErrs {
		path := fe.Namespace()
		if idx := strings.IndexByte(path, '.'); idx >= 0 {
			path = path[idx+1:]
		}
		details.FieldErrors[path] = append(details.FieldErrors[path], x.message(fe))
	}
	return &Error{Details: details}
}

func (x *Validator) message(fe validator.FieldError) string {
	if msg, ok := x.messages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "Required"
	case "url":
		return "Invalid url"
	case "oneof":
		return "Invalid enum value. Expected " + strings.ReplaceAll(fe.Param(), " ", " | ")
	default:
		return "Invalid value"
	}
}

// IsHexColor reports whether s is a #rrggbb colour.
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}
