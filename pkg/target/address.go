// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidAddressSpec is the sentinel error wrapped by InvalidAddressSpecError.
var ErrInvalidAddressSpec = errors.New("invalid address spec")

type (
	// AddressSpec is the textual form of a target address as written in a
	// build file, e.g. "//src/java/org/pantsbuild:lib", "src/java/foo" or ":sibling".
	AddressSpec string

	// Address identifies a target: the directory holding its build file
	// (relative to the build root) and the target name within it.
	Address struct {
		SpecPath string
		Name     string
	}

	// InvalidAddressSpecError is returned when an AddressSpec cannot be parsed.
	// It wraps ErrInvalidAddressSpec for errors.Is() compatibility.
	InvalidAddressSpecError struct {
		Value  AddressSpec
		Reason string
	}
)

// Error implements the error interface for InvalidAddressSpecError.
func (e *InvalidAddressSpecError) Error() string {
	return fmt.Sprintf("invalid address spec %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidAddressSpec for errors.Is() compatibility.
func (e *InvalidAddressSpecError) Unwrap() error { return ErrInvalidAddressSpec }

// String returns the string representation of the AddressSpec.
func (s AddressSpec) String() string { return string(s) }

// Validate returns nil if the spec parses as an address.
func (s AddressSpec) Validate() error {
	_, err := ParseAddressSpec(s, "")
	return err
}

// ParseAddressSpec parses spec into an Address. Relative specs (":name") are
// resolved against relativeTo, the spec path of the declaring build file.
// Specs without a target name take the last path segment as the name.
func ParseAddressSpec(spec AddressSpec, relativeTo string) (Address, error) {
	raw := string(spec)
	if strings.TrimSpace(raw) == "" {
		return Address{}, &InvalidAddressSpecError{Value: spec, Reason: "must not be empty"}
	}
	if strings.ContainsAny(raw, " \t\n") {
		return Address{}, &InvalidAddressSpecError{Value: spec, Reason: "must not contain whitespace"}
	}

	absolute := strings.HasPrefix(raw, "//")
	raw = strings.TrimPrefix(raw, "//")

	specPath, name, hasName := strings.Cut(raw, ":")
	if hasName && strings.Contains(name, ":") {
		return Address{}, &InvalidAddressSpecError{Value: spec, Reason: "more than one ':'"}
	}
	if hasName && name == "" {
		return Address{}, &InvalidAddressSpecError{Value: spec, Reason: "target name after ':' is empty"}
	}
	if strings.HasPrefix(specPath, "/") || strings.Contains(specPath, "..") {
		return Address{}, &InvalidAddressSpecError{Value: spec, Reason: "path must be relative to the build root"}
	}

	specPath = strings.TrimSuffix(specPath, "/")
	if specPath == "" && !absolute && hasName {
		specPath = relativeTo
	}
	if !hasName {
		if specPath == "" {
			return Address{}, &InvalidAddressSpecError{Value: spec, Reason: "missing target name"}
		}
		name = path.Base(specPath)
	}

	return Address{SpecPath: specPath, Name: name}, nil
}

// Spec returns the canonical spec form of the address.
func (a Address) Spec() string {
	if a.SpecPath == "" {
		return "//:" + a.Name
	}
	return a.SpecPath + ":" + a.Name
}

// String returns the canonical spec form of the address.
func (a Address) String() string { return a.Spec() }

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == Address{} }
