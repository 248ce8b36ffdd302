package invoices

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"net/url"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Amounts are stored as int64 cents. maxExponent keeps exponent notation such
// as "1e2000000" from reaching big.Int arithmetic.
const maxExponent = 20

var maxAmount = decimal.New(math.MaxInt64, -2)

// Fields is a submitted form: field name to raw value. A missing key means the
// field was not submitted at all.
type Fields map[string]string

// FieldsFromForm keeps the first value of every submitted key.
func FieldsFromForm(form url.Values) Fields {
	fields := make(Fields, len(form))
	for name, values := range form {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}
	return fields
}

// Payload holds coerced values for the fields a schema declares. KindString
// fields hold a string, KindNumber fields a decimal.Decimal.
type Payload map[string]any

func (p Payload) String(name string) string {
	s, _ := p[name].(string)
	return s
}

func (p Payload) Decimal(name string) decimal.Decimal {
	d, _ := p[name].(decimal.Decimal)
	return d
}

// ValidationResult is either a typed payload or per-field messages. Fields
// that passed are absent from FieldErrors.
type ValidationResult struct {
	Success     bool
	Data        Payload
	FieldErrors map[string][]string
}

type ValidationError struct {
	FieldErrors map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.FieldErrors))
	for _, name := range slices.Sorted(maps.Keys(e.FieldErrors)) {
		parts = append(parts, name+": "+strings.Join(e.FieldErrors[name], ", "))
	}
	return "invalid invoice form: " + strings.Join(parts, "; ")
}

// Validate checks raw against s. It never fails for malformed input; problems
// are reported in the result.
func Validate(s Schema, raw Fields) ValidationResult {
	data := make(Payload, len(s.Fields))
	fieldErrors := map[string][]string{}

	for _, f := range s.Fields {
		value, msgs := f.check(raw[f.Name])
		if len(msgs) > 0 {
			fieldErrors[f.Name] = msgs
			continue
		}
		data[f.Name] = value
	}

	if len(fieldErrors) > 0 {
		return ValidationResult{FieldErrors: fieldErrors}
	}
	return ValidationResult{Success: true, Data: data}
}

// MustValidate is Validate for callers that treat bad input as an error.
func MustValidate(s Schema, raw Fields) (Payload, error) {
	res := Validate(s, raw)
	if !res.Success {
		return nil, &ValidationError{FieldErrors: res.FieldErrors}
	}
	return res.Data, nil
}

// check coerces raw and runs the field rules. An absent value is treated as
// the empty string, which coerces to 0 for numbers.
func (f Field) check(raw string) (any, []string) {
	var value, ruleValue any = raw, raw

	if f.Kind == KindNumber {
		d := decimal.Zero
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			var err error
			if d, err = decimal.NewFromString(trimmed); err != nil {
				return nil, []string{MsgNotANumber}
			}
		}
		if !inCentsRange(d) {
			return nil, []string{MsgAmountOutOfRange}
		}
		value, ruleValue = d, d.InexactFloat64()
	}

	err := validate.Var(ruleValue, f.Rules)
	if err == nil {
		return value, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, f.message(fe))
	}
	return nil, msgs
}

// inCentsRange reports whether d, rounded to cents, fits in an int64.
func inCentsRange(d decimal.Decimal) bool {
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return false
	}
	return d.Round(2).LessThanOrEqual(maxAmount)
}

func (f Field) message(fe validator.FieldError) string {
	if msg, ok := f.Messages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return "Required"
	case "oneof":
		options := strings.Fields(fe.Param())
		for i, o := range options {
			options[i] = "'" + o + "'"
		}
		return fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", strings.Join(options, " | "), fe.Value())
	case "gt":
		return "Number must be greater than " + fe.Param()
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}
