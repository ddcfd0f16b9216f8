// SPDX-License-Identifier: MPL-2.0

package junittests

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ErrInvalidThreads is the sentinel error wrapped by InvalidThreadsError.
var ErrInvalidThreads = errors.New("invalid threads value")

type (
	// EnvVar is one extra environment entry for the test JVM. A nil Value
	// unsets the variable, which is different from not mentioning it.
	EnvVar struct {
		Name  string  `json:"name"`
		Value *string `json:"value"`
	}

	// InvalidThreadsError is returned when a raw threads value is not an integer.
	// It wraps ErrInvalidThreads for errors.Is() compatibility.
	InvalidThreadsError struct {
		Value any
	}
)

// Error implements the error interface for InvalidThreadsError.
func (e *InvalidThreadsError) Error() string {
	return fmt.Sprintf("The value for 'threads' must be an integer, got %v", e.Value)
}

// Unwrap returns ErrInvalidThreads for errors.Is() compatibility.
func (e *InvalidThreadsError) Unwrap() error { return ErrInvalidThreads }

// Unset reports whether the entry removes the variable.
func (e EnvVar) Unset() bool { return e.Value == nil }

// String renders the entry as NAME=value, or NAME (unset).
func (e EnvVar) String() string {
	if e.Value == nil {
		return e.Name + " (unset)"
	}
	return e.Name + "=" + *e.Value
}

// normalizeEnvVars coerces every non-nil value to a string and returns the
// entries sorted by name. nil values (and nil *string) stay nil.
func normalizeEnvVars(raw map[string]any) []EnvVar {
	vars := make([]EnvVar, 0, len(raw))
	for name, v := range raw {
		vars = append(vars, EnvVar{Name: name, Value: envValue(v)})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}

func envValue(v any) *string {
	switch tv := v.(type) {
	case nil:
		return nil
	case *string:
		if tv == nil {
			return nil
		}
		s := *tv
		return &s
	case string:
		return &tv
	case bool:
		// Booleans keep their capitalized True/False spelling.
		s := "False"
		if tv {
			s = "True"
		}
		return &s
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	return &s
}

// parseThreads coerces a raw threads value. A nil value means "not set".
func parseThreads(raw any) (n int, set bool, err error) {
	if raw == nil {
		return 0, false, nil
	}
	if s, ok := raw.(string); ok {
		// Numeric strings follow integer literal rules: surrounding space is
		// fine, fractions and hex are not.
		n, err = strconv.Atoi(strings.TrimSpace(s))
	} else {
		n, err = cast.ToIntE(raw)
	}
	if err != nil {
		return 0, false, &InvalidThreadsError{Value: raw}
	}
	return n, true, nil
}
