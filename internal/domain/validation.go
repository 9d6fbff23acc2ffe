package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

// NewValidator returns a validator that understands the scheduling tags
// hhmm, isodate and estado, and reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		t, err := ParseTimeOfDay(fl.Field().String())
		return err == nil && len(fl.Field().String()) == 5 && t.Valid()
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("estado", func(fl validator.FieldLevel) bool {
		return Estado(fl.Field().String()).Valid()
	})

	return v
}

// ValidateStruct runs v against s and converts the first failure into a ValidationError.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return customError.NewValidationError("", err.Error())
	}

	fe := fieldErrors[0]
	return customError.NewValidationError(fe.Field(), describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "hhmm":
		return "must be a time of day in HH:MM format"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "estado":
		return "must be one of programada, confirmada, en_curso, completada, cancelada, no_asistio"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}
