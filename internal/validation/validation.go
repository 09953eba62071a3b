// Package validation holds the validator setup and messages shared by the
// client shell and the backend, so both reject the same input the same way.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// UsernamePattern is what the "username" rule accepts
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// New returns a validator that reports fields by their JSON names and knows the "username" rule
func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(JSONTagName)

	// Letters, digits and underscores only
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return UsernamePattern.MatchString(fl.Field().String())
	})

	return validate
}

// JSONTagName names a struct field after its json tag, falling back to the Go name
func JSONTagName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

// Message describes a failed rule without the field name, e.g. "must be at most 5"
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + unit(fe)
	case "max":
		return "must be at most " + fe.Param() + unit(fe)
	case "email":
		return "must be a valid email address"
	case "username":
		return "may only contain letters, digits and underscores"
	case "datetime":
		if fe.Param() == time.DateOnly {
			return "must be a date (YYYY-MM-DD)"
		}
		return "must match " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "hexcolor":
		return "must be a hex colour"
	default:
		return fmt.Sprintf("is invalid (%s)", fe.Tag())
	}
}

// unit qualifies a min/max bound by what it counts. Kind already looks
// through pointers, so *int bounds read as plain numbers.
func unit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}
