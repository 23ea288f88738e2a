package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/recipe-api/recipe-api/internal/shared"
)

// NewValidator returns a validator reporting fields by their JSON names.
func NewValidator() *validator.Validate {
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
	return v
}

// ValidateStruct runs struct validation and converts failures to FieldErrors.
func ValidateStruct(v *validator.Validate, s any) error {
	return toFieldErrors(v.Struct(s), "")
}

// ValidateVar validates a single value, attributing failures to field.
func ValidateVar(v *validator.Validate, field string, value any, tag string) error {
	return toFieldErrors(v.Var(value, tag), field)
}

func toFieldErrors(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := shared.FieldErrors{}
	for _, fe := range verrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		fields.Add(name, message(fe))
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	default:
		return "invalid value"
	}
}
