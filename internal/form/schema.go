package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/UnknownOlympus/proteus/internal/models"
	"github.com/go-playground/validator/v10"
)

// Schema maps field paths to validator tag expressions, e.g.
// {"contact.email": "required,email", "rating": "min=1,max=5"}.
type Schema map[string]string

// Validator wraps the go-playground validator for form validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a new Validator instance. Struct field names in
// validation errors are taken from json tags so they line up with the dot
// paths fields bind to.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// Validate checks every schema entry against the value bound at its path and
// returns the violations keyed by path. The state's recorded errors are
// replaced by the result, so a clean run clears earlier messages.
func (val *Validator) Validate(state *State, schema Schema) map[string]string {
	violations := make(map[string]string)

	for path, tags := range schema {
		value, _ := state.Get(path)
		if err := val.v.Var(unwrap(value), tags); err != nil {
			var errs validator.ValidationErrors
			if !errors.As(err, &errs) || len(errs) == 0 {
				violations[path] = "Invalid value"
				continue
			}
			violations[path] = message(errs[0])
		}
	}

	state.ClearErrors()
	for path, msg := range violations {
		state.SetError(path, msg)
	}

	return violations
}

// ValidateStruct validates a tagged struct and returns violations keyed by
// the dot path of each offending field (json tag names, root struct name
// stripped).
func (val *Validator) ValidateStruct(s any) map[string]string {
	violations := make(map[string]string)

	err := val.v.Struct(s)
	if err == nil {
		return violations
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		violations[""] = "Invalid value"
		return violations
	}

	for _, fe := range errs {
		violations[pathOf(fe)] = message(fe)
	}

	return violations
}

// unwrap lowers form values to what the validator should judge. An address
// is judged by its text: both a never-touched field (nil address) and a
// cleared one fail "required".
func unwrap(value any) any {
	switch v := value.(type) {
	case models.AddressValue:
		return v.AddressText()
	case *models.AddressValue:
		if v == nil {
			return ""
		}
		return v.AddressText()
	default:
		return value
	}
}

// pathOf converts a validation error namespace like "form.contact.email"
// into the bound dot path "contact.email".
func pathOf(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

// message renders a human-readable error line for a single violation.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "url", "http_url":
		return "Must be a valid URL"
	case "e164":
		return "Must be a phone number in international format"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "gte":
		return "Must be " + fe.Param() + " or more"
	case "lte":
		return "Must be " + fe.Param() + " or less"
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "Must match the format " + fe.Param()
	case "hexcolor":
		return "Must be a hex color like #1a2b3c"
	case "numeric":
		return "Must be a number"
	default:
		return fmt.Sprintf("Must satisfy %q", fe.Tag())
	}
}
