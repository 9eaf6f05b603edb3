package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/aussiebroadwan/finepay/pkg/identx"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages line up with the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("za_id", func(fl validator.FieldLevel) bool {
		return identx.ValidateNationalID(fl.Field().String())
	})
	_ = v.RegisterValidation("za_reg", func(fl validator.FieldLevel) bool {
		return identx.ValidateVehicleRegistration(fl.Field().String())
	})
	return v
}

// validateStruct runs the struct's validate tags and turns failures into a
// *ValidationError.
func validateStruct(obj any) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = errorMessage(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "za_id":
		value, _ := fe.Value().(string)
		if ferr := identx.CheckNationalID(value); ferr != nil {
			return ferr.Message
		}
		return "Invalid South African ID number"
	case "za_reg":
		return "Invalid vehicle registration format"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "lte":
		return "Must be less than or equal to " + fe.Param()
	default:
		return "Invalid value"
	}
}
