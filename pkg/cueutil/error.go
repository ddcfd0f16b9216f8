// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidInput is the sentinel error wrapped by InputError.
var ErrInvalidInput = errors.New("invalid CUE input")

type (
	// Issue is one problem found in a document.
	Issue struct {
		// Path is the JSON-style path of the offending value, e.g.
		// "junit_tests[1].threads". Empty for document-level problems.
		Path string
		// Message describes the problem.
		Message string
	}

	// InputError reports every problem CUE found in a user document.
	// It wraps ErrInvalidInput for errors.Is() compatibility.
	InputError struct {
		Filename string
		Issues   []Issue
	}
)

// Error implements the error interface for InputError.
func (e *InputError) Error() string {
	if len(e.Issues) == 1 {
		return e.Filename + ": " + e.Issues[0].String()
	}
	lines := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		lines[i] = is.String()
	}
	return fmt.Sprintf("%s: %d problems:\n  %s", e.Filename, len(e.Issues), strings.Join(lines, "\n  "))
}

// Unwrap returns ErrInvalidInput for errors.Is() compatibility.
func (e *InputError) Unwrap() error { return ErrInvalidInput }

// String renders the issue as "path: message".
func (is Issue) String() string {
	if is.Path == "" {
		return is.Message
	}
	return is.Path + ": " + is.Message
}

// NewInputError converts a CUE error into an *InputError. Non-CUE errors
// become a single path-less issue.
func NewInputError(err error, filename string) *InputError {
	if err == nil {
		return nil
	}
	out := &InputError{Filename: filename}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		out.Issues = []Issue{{Message: err.Error()}}
		return out
	}
	for _, e := range list {
		path := JSONPath(cueerrors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		out.Issues = append(out.Issues, Issue{Path: path, Message: msg})
	}
	return out
}

// JSONPath joins CUE path selectors, rendering numeric selectors as indexes:
// ["junit_tests", "0", "cwd"] becomes "junit_tests[0].cwd".
func JSONPath(parts []string) string {
	var sb strings.Builder
	for i, part := range parts {
		switch {
		case i > 0 && isIndex(part):
			sb.WriteString("[" + part + "]")
		case i > 0:
			sb.WriteString("." + part)
		default:
			sb.WriteString(part)
		}
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
