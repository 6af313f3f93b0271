package book

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterStructValidation(validatePricing, CreateRequest{})
}

// validatePricing rejects non-finite amounts and a sale price below the unit cost.
func validatePricing(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateRequest)
	finite := true
	for _, m := range []struct {
		name  string
		value *float64
	}{{"Price", req.Price}, {"Cost", req.Cost}} {
		if m.value != nil && (math.IsInf(*m.value, 0) || math.IsNaN(*m.value)) {
			sl.ReportError(m.value, m.name, m.name, "finite", "")
			finite = false
		}
	}
	if !finite || req.Price == nil || req.Cost == nil {
		return
	}
	if *req.Price < *req.Cost {
		sl.ReportError(req.Price, "Price", "Price", "pricing", "")
	}
}

// FieldError describes one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists every rule a request violated.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "invalid book request: " + strings.Join(msgs, "; ")
}

// Has reports whether the given field failed the given rule.
func (e *ValidationError) Has(field, rule string) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Rule == rule {
			return true
		}
	}
	return false
}

// ValidateCreateRequest checks required fields, finite non-negative money,
// units >= 0 and price >= cost.
// It touches no storage. A non-nil result is always a *ValidationError.
func ValidateCreateRequest(req CreateRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "request", Rule: "invalid", Message: err.Error()}}}
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		field := fe.Field()
		tag := fe.Tag()
		param := fe.Param()

		fieldName := strings.ToLower(field[:1]) + field[1:]

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", fieldName)
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", fieldName, param)
		case "pricing":
			message = "price must not be less than cost"
		case "finite":
			message = fmt.Sprintf("%s must be a finite number", fieldName)
		default:
			message = fmt.Sprintf("%s is invalid", fieldName)
		}

		out.Fields = append(out.Fields, FieldError{
			Field:   fieldName,
			Rule:    tag,
			Message: message,
		})
	}
	return out
}
