package types

import (
	errs "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report problems under the names clients send.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct checks the validate tags of s and collects every failing field into a
// ValidationError.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errs.As(err, &fieldErrs) {
		return errors.Wrap(err, "validating")
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Problems = append(verr.Problems, describe(fe))
	}
	return verr.orNil()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "gte":
		if fe.Param() == "0" {
			return fmt.Sprintf("%s must not be negative, got %v", fe.Field(), fe.Value())
		}
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %v", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	default:
		return fmt.Sprintf("%s failed the %s check", fe.Field(), fe.Tag())
	}
}
