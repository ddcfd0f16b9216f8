// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"fmt"
)

// ErrTargetDefinition is the sentinel error wrapped by TargetDefinitionError.
var ErrTargetDefinition = errors.New("invalid target definition")

// TargetDefinitionError reports that a declared target cannot enter the build
// graph. It is always fatal to the node it names.
type TargetDefinitionError struct {
	Address Address
	Message string
	// Cause is the underlying validation error, if any.
	Cause error
}

// NewDefinitionError creates a TargetDefinitionError for addr.
func NewDefinitionError(addr Address, format string, args ...any) *TargetDefinitionError {
	return &TargetDefinitionError{Address: addr, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *TargetDefinitionError) Error() string {
	return fmt.Sprintf("Invalid target %s: %s", e.Address.Spec(), e.Message)
}

// Unwrap returns ErrTargetDefinition and the cause, if set.
func (e *TargetDefinitionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrTargetDefinition, e.Cause}
	}
	return []error{ErrTargetDefinition}
}
