package model

import (
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	DateLayout   = "2006-01-02"
	PeriodLayout = "2006-01"
	ClockLayout  = "15:04"
)

// MaxAmount caps salaries and payment amounts.
var MaxAmount = decimal.NewFromInt(10_000_000)

var (
	aadharRe     = regexp.MustCompile(`^\d{12}$`)
	phoneRe      = regexp.MustCompile(`^\d{10}$`)
	personNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]*$`)
	clockRe      = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	referenceRe  = regexp.MustCompile(`^[A-Za-z0-9/-]+$`)
)

// ValidationErrors maps a JSON field name to a human readable problem.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+v[f])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a problem.
func (v ValidationErrors) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// OrNil returns nil for an empty set so callers can `return errs.OrNil()`.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "aadhar", matches(aadharRe))
	mustRegister(v, "phone10", matches(phoneRe))
	mustRegister(v, "personname", matches(personNameRe))
	mustRegister(v, "hhmm", matches(clockRe))
	mustRegister(v, "reference", matches(referenceRe))
	mustRegister(v, "isodate", parses(DateLayout))
	mustRegister(v, "period", parses(PeriodLayout))

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func parses(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

// validateStruct runs the struct-tag rules and converts failures into ValidationErrors.
func validateStruct(s any) ValidationErrors {
	errs := ValidationErrors{}

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("_", err.Error())
		return errs
	}

	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}

	return errs
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		if isString {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max", "lte":
		if isString {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "email":
		return "must be a valid email address"
	case "aadhar":
		return "must be exactly 12 digits"
	case "phone10":
		return "must be exactly 10 digits"
	case "personname":
		return "may contain only letters, spaces, dots, apostrophes and hyphens"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "period":
		return "must be a month in YYYY-MM format"
	case "reference":
		return "may contain only letters, digits, '-' and '/'"
	default:
		return "is invalid"
	}
}

// checkAmount applies the shared money rules to field.
func checkAmount(errs ValidationErrors, field string, d decimal.Decimal) {
	switch {
	case !d.IsPositive():
		errs.Add(field, "must be greater than 0")
	case d.GreaterThan(MaxAmount):
		errs.Add(field, "must not exceed "+MaxAmount.String())
	case !d.Equal(d.Round(2)):
		errs.Add(field, "must have at most 2 decimal places")
	}
}

// isFutureDate reports whether an ISO date lies after the calendar day of now.
func isFutureDate(date string, now time.Time) bool {
	return date > now.Format(DateLayout)
}

// collapseSpaces trims s and squeezes inner runs of whitespace to one space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// digitsOnly drops spaces and dashes users type into numeric identifiers.
func digitsOnly(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}
