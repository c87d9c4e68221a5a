package goSentinel

import (
	"errors"
	"fmt"

	"github.com/MrEthical07/goSentinel/naming"
)

var (
	// ErrNaming is returned when a name fails the ALL_CAPS/dunder rule on first reference.
	ErrNaming = naming.ErrInvalidName
	// ErrRebind is returned when a representation is bound to a value different from the one already bound.
	ErrRebind = errors.New("constant already represented by a different value")
	// ErrStringFrozen is returned when a constant already observed as its name is bound to a value with a different string form.
	ErrStringFrozen = errors.New("constant already observed as its name")
	// ErrUnboundRepresentation is returned when an operation needs a representation the constant does not have.
	ErrUnboundRepresentation = errors.New("constant has no representation")
	// ErrDefaultsDisabled is returned instead of materializing a default representation when defaults are disabled.
	ErrDefaultsDisabled = fmt.Errorf("%w: default representation disabled", ErrUnboundRepresentation)
	// ErrBoolConflict is returned when a boolean override contradicts the constant's existing boolean value.
	ErrBoolConflict = errors.New("constant boolean value conflict")
	// ErrUnboundBoolean is returned when a constant has neither a boolean override nor a representation with truthiness.
	ErrUnboundBoolean = errors.New("constant cannot currently be represented as a bool")
	// ErrCast is returned when a representation cannot be converted to the requested type.
	ErrCast = errors.New("constant representation cannot be cast")
	// ErrUnsupportedOperation is returned for operations the representation type does not define.
	ErrUnsupportedOperation = errors.New("unsupported operation for representation")
	// ErrDivisionByZero is returned by integer division with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrMirrorNotConfigured is returned by mirror operations on a registry built without a mirror.
	ErrMirrorNotConfigured = errors.New("registry mirror not configured")
	// ErrBuilderUsed is returned when Build is called twice on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
)

// BindError describes a rejected representation or boolean binding. It
// unwraps to ErrRebind, ErrStringFrozen or ErrBoolConflict.
type BindError struct {
	Name      string
	Current   string
	Attempted string
	Err       error
}

func (e *BindError) Error() string {
	if e.Current == "" {
		return fmt.Sprintf("%s: %v (attempted %s)", e.Name, e.Err, e.Attempted)
	}
	return fmt.Sprintf("%s: %v (was %s, attempted %s)", e.Name, e.Err, e.Current, e.Attempted)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
