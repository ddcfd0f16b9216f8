// SPDX-License-Identifier: MPL-2.0

package deprecation

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidRemovalVersion is the sentinel error wrapped by InvalidRemovalVersionError.
var ErrInvalidRemovalVersion = errors.New("invalid removal version")

type (
	// RemovalVersion is the release in which a deprecated entity goes away, in
	// build-tool release notation ("1.28.0.dev0", "2.0.0rc1", "1.30.0").
	RemovalVersion string

	// InvalidRemovalVersionError is returned when a RemovalVersion does not
	// normalize to a semantic version.
	InvalidRemovalVersionError struct {
		Value RemovalVersion
	}
)

// Error implements the error interface for InvalidRemovalVersionError.
func (e *InvalidRemovalVersionError) Error() string {
	return fmt.Sprintf("invalid removal version %q (expected MAJOR.MINOR.PATCH[.devN|rcN])", e.Value)
}

// Unwrap returns ErrInvalidRemovalVersion for errors.Is() compatibility.
func (e *InvalidRemovalVersionError) Unwrap() error { return ErrInvalidRemovalVersion }

// Validate returns nil if the version is well formed.
func (v RemovalVersion) Validate() error {
	if !semver.IsValid(v.Semver()) {
		return &InvalidRemovalVersionError{Value: v}
	}
	return nil
}

// Semver converts the release notation into semver form: "1.28.0.dev0"
// becomes "v1.28.0-dev0" and "2.0.0rc1" becomes "v2.0.0-rc1".
func (v RemovalVersion) Semver() string {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return ""
	}
	for _, marker := range []string{".dev", "rc", "a", "b"} {
		if i := strings.Index(s, marker); i > 0 && isPatchEnd(s[:i]) {
			return "v" + s[:i] + "-" + strings.TrimPrefix(s[i:], ".")
		}
	}
	return "v" + s
}

// Compare orders two removal versions; invalid versions sort first.
func (v RemovalVersion) Compare(other RemovalVersion) int {
	return semver.Compare(v.Semver(), other.Semver())
}

// String returns the string representation of the RemovalVersion.
func (v RemovalVersion) String() string { return string(v) }

// isPatchEnd reports whether s looks like a complete MAJOR.MINOR.PATCH prefix.
func isPatchEnd(s string) bool {
	return strings.Count(s, ".") == 2 && s[len(s)-1] >= '0' && s[len(s)-1] <= '9'
}
