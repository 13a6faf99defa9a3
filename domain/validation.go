package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	employerNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z ',.\-]*$`)
	ukPostcodePattern   = regexp.MustCompile(`^[A-Za-z]{1,2}[0-9][A-Za-z0-9]?\s?[0-9][A-Za-z]{2}$`)
)

// Validator evaluates employment progressions against the declarative field
// constraints and the cross-field business rules. It holds no per-call
// state and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the custom field tags registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("noanglebrackets", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "<>")
	})
	_ = v.RegisterValidation("employername", func(fl validator.FieldLevel) bool {
		return employerNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ukpostcode", func(fl validator.FieldLevel) bool {
		return ukPostcodePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns every violation found on p, declarative constraints first
// and then the business rules. An empty result means the record is valid.
func (v *Validator) Validate(p *EmploymentProgression, now time.Time) ([]Violation, error) {
	if p == nil {
		return nil, ErrNilRecord
	}

	violations := make([]Violation, 0, 4)

	if err := v.validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		for _, fe := range fieldErrs {
			violations = append(violations, Violation{Field: fe.Field(), Message: constraintMessage(fe)})
		}
	}

	return append(violations, businessRules(p, now)...), nil
}

func businessRules(p *EmploymentProgression, now time.Time) []Violation {
	var out []Violation
	add := func(field, message string) {
		out = append(out, Violation{Field: field, Message: message})
	}

	if isFuture(p.DateProgressionRecorded, now) {
		add(FieldDateProgressionRecorded, "date progression recorded must be less than or equal to now")
	}

	if p.CurrentEmploymentStatus != nil && !p.CurrentEmploymentStatus.IsDefined() {
		add(FieldCurrentEmploymentStatus, "please supply a valid current employment status")
	}

	if p.EconomicShockStatus != nil && !p.EconomicShockStatus.IsDefined() {
		add(FieldEconomicShockStatus, "please supply a valid economic shock status")
	}

	if p.EconomicShockStatus != nil &&
		*p.EconomicShockStatus == EconomicShockGovernmentDefinedEconomicShock &&
		strings.TrimSpace(p.EconomicShockCode) == "" {
		add(FieldEconomicShockCode, "economic shock code must have a value when economic shock status is government defined economic shock")
	}

	detailsRequired := p.CurrentEmploymentStatus != nil && p.CurrentEmploymentStatus.RequiresEmploymentDetails()

	switch {
	case detailsRequired && p.EmploymentHours == nil:
		add(FieldEmploymentHours, "employment hours must have a value for the current employment status")
	case p.EmploymentHours != nil && !p.EmploymentHours.IsDefined():
		add(FieldEmploymentHours, "please supply a valid employment hours value")
	}

	switch {
	case detailsRequired && p.DateOfEmployment == nil:
		add(FieldDateOfEmployment, "date of employment must have a value for the current employment status")
	case isFuture(p.DateOfEmployment, now):
		add(FieldDateOfEmployment, "date of employment must be less than or equal to now")
	}

	if isFuture(p.DateOfLastEmployment, now) {
		add(FieldDateOfLastEmployment, "date of last employment must be less than or equal to now")
	}

	if p.LengthOfUnemployment != nil && !p.LengthOfUnemployment.IsDefined() {
		add(FieldLengthOfUnemployment, "please supply a valid length of unemployment")
	}

	if isFuture(p.LastModifiedDate, now) {
		add(FieldLastModifiedDate, "last modified date must be less than or equal to now")
	}

	return out
}

func isFuture(t *time.Time, now time.Time) bool {
	return t != nil && t.After(now)
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "number":
		return fmt.Sprintf("%s must contain digits only", fe.Field())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", fe.Field())
	case "noanglebrackets":
		return fmt.Sprintf("%s must not contain angle brackets", fe.Field())
	case "employername":
		return fmt.Sprintf("%s contains invalid characters", fe.Field())
	case "ukpostcode":
		return "please enter a valid postcode"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
