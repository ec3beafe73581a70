package serverutils

import (
	"regexp"

	"iot-support-be/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// phone accepts an optional leading + followed by 7 to 15 digits, with
// spaces and dashes tolerated.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,18}[0-9]$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateRequest validates a DTO and translates the first failure into the
// application's ValidationError.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return &apperr.ValidationError{
				Field:  first.Field(),
				Reason: "failed on rule '" + first.Tag() + "'",
			}
		}
		return &apperr.ValidationError{Field: "request", Reason: err.Error()}
	}
	return nil
}
