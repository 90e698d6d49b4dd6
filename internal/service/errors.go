package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrForbidden indicates the requester's role does not allow the operation.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrNotFound indicates the referenced record does not exist within the requester's scope.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	// ErrInactiveAccount indicates a login attempt for a deactivated account.
	ErrInactiveAccount = errors.New("user account is disabled")
)

// ValidationError reports per-field problems with a write. Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[key]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidationError extracts a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return validate
}

// validateStruct runs struct validation and converts failures into a ValidationError.
func validateStruct(validate *validator.Validate, payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		field, message := describeFieldError(fe)
		if _, exists := fields[field]; !exists {
			fields[field] = message
		}
	}
	return &ValidationError{Fields: fields}
}

func describeFieldError(fe validator.FieldError) (string, string) {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field, "This field is required."
	case "eqfield":
		return "password", "Password fields didn't match."
	case "min":
		if field == "password" {
			return field, "Password must be at least 8 characters"
		}
		return field, fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return field, fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return field, "Enter a valid email address."
	case "oneof":
		return field, fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	default:
		return field, fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
