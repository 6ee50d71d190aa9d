package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var monthYearPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// RegisterCustom installs the custom binding tags used by request DTOs on
// gin's validator engine. Call once at startup before serving requests.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("month_year", func(fl validator.FieldLevel) bool {
		return monthYearPattern.MatchString(fl.Field().String())
	})
}
