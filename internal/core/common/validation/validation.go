package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	errors "github.com/frahmantamala/police-portal/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

// Required rejects empty strings, nil string pointers, zero ids and empty slices.
func (fv *FieldValidator) Required(message string) *FieldValidator {
	if message == "" {
		message = fmt.Sprintf("%s مطلوب", fv.FieldName)
	}
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		empty := false
		switch v := value.(type) {
		case string:
			empty = v == ""
		case *string:
			empty = v == nil || *v == ""
		case int64:
			empty = v == 0
		case []string:
			empty = len(v) == 0
		}
		if empty {
			return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeMissingFields)
		}
		return nil
	})
	return fv
}

// MinLength counts runes so Arabic input is measured by characters.
func (fv *FieldValidator) MinLength(min int, message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && utf8.RuneCountInString(v) < min {
			if message == "" {
				message = fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min)
			}
			return errors.NewValidationFieldError(fv.FieldName, message, code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && utf8.RuneCountInString(v) > max {
			message := fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max)
			return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Matches(pattern *regexp.Regexp, message string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && !pattern.MatchString(v) {
			return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate reports the first failing rule per field; the top-level message is
// the first field message so handlers can render it directly.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError
	var first *errors.AppError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			err := validator(field.Value)
			if err == nil {
				continue
			}
			if first == nil {
				first = err
			}
			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: err.Message,
				Code:    string(err.Code),
			})
			break
		}
	}

	if first == nil {
		return nil
	}

	return errors.NewValidationError(first.Message, first.Code).
		WithDetails(errors.ValidationErrors{Errors: validationErrors})
}
