package nutrition

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the calculator. Callers match them with errors.Is;
// the concrete types below carry the details.
var (
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrUnknownEnumValue  = errors.New("unknown enum value")
	ErrComputation       = errors.New("could not calculate plan")
)

// MissingFieldsError names every required input that was absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool { return target == ErrMissingFields }

// UnknownEnumError reports a value outside one of the closed sets
// (gender, activity level, goal).
type UnknownEnumError struct {
	Field string
	Value string
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnknownEnumValue, e.Field, e.Value)
}

func (e *UnknownEnumError) Is(target error) bool { return target == ErrUnknownEnumValue }

// invalidDate wraps ErrInvalidDateFormat with the offending field and value.
func invalidDate(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidDateFormat, field, value)
}

// computationError wraps ErrComputation with a reason.
func computationError(reason string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrComputation, fmt.Sprintf(reason, args...))
}
