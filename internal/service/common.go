package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an operation targets a record that does not
// exist.
var ErrNotFound = errors.New("not found")

// ErrInvalid matches input validation failures.
var ErrInvalid = errors.New("invalid input")

type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

func (e validationError) Is(target error) bool { return target == ErrInvalid }

func invalidf(format string, args ...any) error {
	return validationError{msg: fmt.Sprintf(format, args...)}
}

func validateNonNegativeInt(name string, value int) error {
	if value < 0 {
		return invalidf("%s must be >= 0", name)
	}
	return nil
}

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 {
		return invalidf("%s must be >= 0", name)
	}
	return nil
}

func validateOptionalInt(name string, value *int) error {
	if value == nil {
		return nil
	}
	return validateNonNegativeInt(name, *value)
}

func requireID(kind, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalidf("%s id is required", kind)
	}
	return id, nil
}

func newID() string {
	return uuid.NewString()
}

// nowUTC strips the monotonic reading so stored timestamps compare as text.
func nowUTC() time.Time {
	return time.Now().UTC()
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
