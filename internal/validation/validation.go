package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Error reports every violated field of an input, not just the first.
// Fields maps a JSON field name to a human-readable message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewError builds a validation error from explicit field messages.
func NewError(fields map[string]string) *Error {
	return &Error{Fields: fields}
}

// Struct validates v against its `validate` tags and returns an *Error
// listing all violations keyed by the field's `json` tag name.
func Struct(v any) *Error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Error{Fields: map[string]string{"input": err.Error()}}
	}

	fields := make(map[string]string, len(violations))
	for _, violation := range violations {
		fields[fieldName(v, violation)] = message(violation)
	}
	return &Error{Fields: fields}
}

func fieldName(v any, violation validator.FieldError) string {
	// validator reports the Go struct field; translate via the json tag so
	// clients see the name they sent.
	name := jsonTagFor(v, violation.StructField())
	if name == "" {
		name = strings.ToLower(violation.StructField()[:1]) + violation.StructField()[1:]
	}
	return name
}

func jsonTagFor(v any, structField string) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}
	field, ok := t.FieldByName(structField)
	if !ok {
		return ""
	}
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}

func message(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", violation.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", violation.Param())
	default:
		return fmt.Sprintf("failed %s validation", violation.Tag())
	}
}
