package utils

import (
	"odonto-service/internal/pkg/constvars"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	dniSeparators  = strings.NewReplacer(".", "", " ", "", "-", "")
	dniPattern     = regexp.MustCompile(`^\d{7,8}$`)
	turnoTypeRegex = regexp.MustCompile(`^[\p{L} ]{2,40}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterValidation("dni", validateDNI)
	validate.RegisterValidation("turno_type", validateTurnoType)
	validate.RegisterValidation("date_only", validateDateOnly)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value, such as a URL parameter, against tag.
func ValidateVar(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func validateDNI(fl validator.FieldLevel) bool {
	return dniPattern.MatchString(dniSeparators.Replace(fl.Field().String()))
}

// Known types get their own duration; any other short name is accepted and
// falls back to the default length.
func validateTurnoType(fl validator.FieldLevel) bool {
	value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if _, ok := constvars.TurnoTypeDurations[value]; ok {
		return true
	}
	return turnoTypeRegex.MatchString(value)
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.DateOnlyLayout, fl.Field().String())
	return err == nil
}
