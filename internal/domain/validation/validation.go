// Package validation checks request DTOs against their `validate` struct tags
// before they are sent to the backend.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so messages match the form field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// Error renders a short human-readable message.
func (fe FieldError) Error() string {
	switch fe.Rule {
	case "required":
		return fe.Field + " is required"
	case "email":
		return fe.Field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field, fe.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field, fe.Param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field, fe.Param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field, fe.Param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field, fe.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field, strings.ReplaceAll(fe.Param, " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", fe.Field, fe.Param)
	default:
		return fmt.Sprintf("%s failed %s", fe.Field, fe.Rule)
	}
}

// Errors is the list of field failures for one struct.
type Errors []FieldError

// Error joins the individual messages.
func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Struct validates v and returns Errors when any rule fails.
// PRE: v is a struct or pointer to struct
// POST: Returns nil if every rule passes
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}
