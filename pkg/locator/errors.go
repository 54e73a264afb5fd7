package locator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSelector matches every error returned by Build.
	ErrInvalidSelector = errors.New("invalid selector")
	// ErrType matches value type mismatches.
	ErrType = errors.New("locator type error")
	// ErrLocator matches structurally invalid selectors.
	ErrLocator = errors.New("locator composition error")
)

// TypeError reports a value whose concrete type is not accepted for its key.
type TypeError struct {
	Key      string
	Expected []string
	Value    Value
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected one of [%s], got %s:%s",
		strings.Join(e.Expected, ", "), inspect(e.Value), typeName(e.Value))
}

func (e *TypeError) Is(target error) bool {
	return target == ErrType || target == ErrInvalidSelector
}

// LocatorError reports an invalid combination of keys or values.
type LocatorError struct {
	Msg string
}

func (e *LocatorError) Error() string { return e.Msg }

func (e *LocatorError) Is(target error) bool {
	return target == ErrLocator || target == ErrInvalidSelector
}

func locatorErrorf(format string, args ...any) error {
	return &LocatorError{Msg: fmt.Sprintf(format, args...)}
}
