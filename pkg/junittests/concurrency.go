// SPDX-License-Identifier: MPL-2.0

package junittests

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ConcurrencySerial runs test classes and methods one at a time.
	ConcurrencySerial ConcurrencyMode = "SERIAL"
	// ConcurrencyParallelClasses runs test classes in parallel.
	ConcurrencyParallelClasses ConcurrencyMode = "PARALLEL_CLASSES"
	// ConcurrencyParallelMethods runs methods of a class in parallel.
	ConcurrencyParallelMethods ConcurrencyMode = "PARALLEL_METHODS"
	// ConcurrencyParallelClassesAndMethods runs both classes and methods in parallel.
	ConcurrencyParallelClassesAndMethods ConcurrencyMode = "PARALLEL_CLASSES_AND_METHODS"
)

// ErrInvalidConcurrencyMode is the sentinel error wrapped by InvalidConcurrencyModeError.
var ErrInvalidConcurrencyMode = errors.New("invalid concurrency mode")

type (
	// ConcurrencyMode selects how tests in a target run relative to each other.
	// The zero value ("") means "use the global default".
	ConcurrencyMode string

	// InvalidConcurrencyModeError is returned when a ConcurrencyMode value is not recognized.
	// It wraps ErrInvalidConcurrencyMode for errors.Is() compatibility.
	InvalidConcurrencyModeError struct {
		Value ConcurrencyMode
	}
)

// ValidConcurrencyModes returns every accepted mode in canonical order.
func ValidConcurrencyModes() []ConcurrencyMode {
	return []ConcurrencyMode{
		ConcurrencySerial,
		ConcurrencyParallelClasses,
		ConcurrencyParallelMethods,
		ConcurrencyParallelClassesAndMethods,
	}
}

// Error implements the error interface for InvalidConcurrencyModeError.
func (e *InvalidConcurrencyModeError) Error() string {
	valid := ValidConcurrencyModes()
	names := make([]string, len(valid))
	for i, m := range valid {
		names[i] = string(m)
	}
	return fmt.Sprintf("The value for 'concurrency' must be one of [%s] got: %s", strings.Join(names, ", "), e.Value)
}

// Unwrap returns ErrInvalidConcurrencyMode for errors.Is() compatibility.
func (e *InvalidConcurrencyModeError) Unwrap() error { return ErrInvalidConcurrencyMode }

// IsValid returns whether the ConcurrencyMode is one of the defined modes.
// The zero value is valid and means "inherit the global default".
func (m ConcurrencyMode) IsValid() (bool, []error) {
	switch m {
	case "", ConcurrencySerial, ConcurrencyParallelClasses, ConcurrencyParallelMethods, ConcurrencyParallelClassesAndMethods:
		return true, nil
	default:
		return false, []error{&InvalidConcurrencyModeError{Value: m}}
	}
}

// IsParallel reports whether the mode runs anything in parallel.
func (m ConcurrencyMode) IsParallel() bool {
	switch m {
	case ConcurrencyParallelClasses, ConcurrencyParallelMethods, ConcurrencyParallelClassesAndMethods:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ConcurrencyMode.
func (m ConcurrencyMode) String() string { return string(m) }
