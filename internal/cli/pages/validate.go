package pages

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tripjournal/tripjournal/internal/validation"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the validator shared by every form in the shell
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validation.New()
	})
	return validate
}

// validationMessage flattens validator errors into one line per field
func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe.Field(), fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(field string, fe validator.FieldError) string {
	return field + " " + validation.Message(fe)
}

// fieldRule validates a single input against a validator/v10 tag expression
func fieldRule(name, tag string) func(string) error {
	return func(input string) error {
		err := Validator().Var(input, tag)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(fieldMessage(name, verrs[0]))
		}
		return err
	}
}
