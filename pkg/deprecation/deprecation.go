// SPDX-License-Identifier: MPL-2.0

package deprecation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

type (
	// Warning describes one deprecation event.
	Warning struct {
		// Entity names what is deprecated, e.g. "test_platform".
		Entity string
		// RemovalVersion is when Entity goes away.
		RemovalVersion RemovalVersion
		// Hint tells the user what to use instead.
		Hint string
	}

	// Sink receives deprecation warnings.
	Sink interface {
		Warn(w Warning)
	}

	// LogSink writes warnings to a charmbracelet logger at warn level.
	LogSink struct {
		logger *log.Logger
	}

	// Recorder collects warnings in memory. It is safe for concurrent use.
	Recorder struct {
		mu       sync.Mutex
		warnings []Warning
	}

	discardSink struct{}
)

// Discard is a Sink that drops every warning.
var Discard Sink = discardSink{}

// Message renders the warning the way it appears in the build's diagnostics.
func (w Warning) Message() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DEPRECATED: %s will be removed in version %s.", w.Entity, w.RemovalVersion)
	if w.Hint != "" {
		sb.WriteString("\n  ")
		sb.WriteString(w.Hint)
	}
	return sb.String()
}

// NewLogSink creates a sink backed by logger.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Warn implements Sink.
func (s *LogSink) Warn(w Warning) {
	s.logger.Warn(w.Message(), "entity", w.Entity, "removal_version", w.RemovalVersion.String())
}

// Warn implements Sink.
func (r *Recorder) Warn(w Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, w)
}

// Warnings returns a copy of everything recorded so far.
func (r *Recorder) Warnings() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Warning(nil), r.warnings...)
}

// Len returns the number of recorded warnings.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

func (discardSink) Warn(Warning) {}

// Conditional warns on sink when cond reports true. It never changes control flow.
func Conditional(sink Sink, cond func() bool, removal RemovalVersion, entity, hint string) {
	if sink == nil || !cond() {
		return
	}
	sink.Warn(Warning{Entity: entity, RemovalVersion: removal, Hint: hint})
}

// Wrap returns fn guarded by a deprecation warning: every call warns on sink,
// then delegates to fn.
func Wrap[T any](sink Sink, removal RemovalVersion, entity, hint string, fn func() T) func() T {
	return func() T {
		Conditional(sink, func() bool { return true }, removal, entity, hint)
		return fn()
	}
}
