// SPDX-License-Identifier: MPL-2.0

package deprecation

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRemovalVersion_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version RemovalVersion
		semver  string
		wantErr bool
	}{
		{"1.28.0.dev0", "v1.28.0-dev0", false},
		{"2.0.0rc1", "v2.0.0-rc1", false},
		{"1.30.0", "v1.30.0", false},
		{"", "", true},
		{"one.two", "vone.two", true},
		{"1.28", "v1.28", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.version), func(t *testing.T) {
			t.Parallel()
			if got := tt.version.Semver(); got != tt.semver {
				t.Errorf("Semver() = %q, want %q", got, tt.semver)
			}
			err := tt.version.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRemovalVersion) {
					t.Errorf("Validate() error = %v, want ErrInvalidRemovalVersion", err)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestRemovalVersion_Compare(t *testing.T) {
	t.Parallel()

	if RemovalVersion("1.28.0.dev0").Compare("1.28.0") >= 0 {
		t.Error("dev release should sort before the final release")
	}
	if RemovalVersion("1.29.0").Compare("1.28.0.dev0") <= 0 {
		t.Error("1.29.0 should sort after 1.28.0.dev0")
	}
}

func TestWarning_Message(t *testing.T) {
	t.Parallel()

	w := Warning{Entity: "test_platform", RemovalVersion: "1.28.0.dev0", Hint: "Replaced with runtime_platform."}
	want := "DEPRECATED: test_platform will be removed in version 1.28.0.dev0.\n  Replaced with runtime_platform."
	if got := w.Message(); got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}

func TestConditional(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	Conditional(rec, func() bool { return false }, "1.0.0", "a", "")
	if rec.Len() != 0 {
		t.Fatalf("false condition recorded %d warnings", rec.Len())
	}

	Conditional(rec, func() bool { return true }, "1.0.0", "a", "use b")
	got := rec.Warnings()
	if len(got) != 1 || got[0].Entity != "a" || got[0].Hint != "use b" {
		t.Errorf("Warnings() = %+v", got)
	}

	// A nil sink must not evaluate or panic.
	Conditional(nil, func() bool { t.Error("condition evaluated for nil sink"); return true }, "1.0.0", "a", "")
}

func TestWrap_WarnsOnEveryCall(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	calls := 0
	legacy := Wrap(rec, "1.28.0.dev0", "test_platform", "Use runtime_platform", func() string {
		calls++
		return "java8"
	})

	for range 3 {
		if got := legacy(); got != "java8" {
			t.Fatalf("wrapped fn returned %q", got)
		}
	}
	if calls != 3 || rec.Len() != 3 {
		t.Errorf("calls = %d, warnings = %d, want 3 and 3", calls, rec.Len())
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Warn(Warning{Entity: "x"})
		}()
	}
	wg.Wait()
	if rec.Len() != 50 {
		t.Errorf("Len() = %d, want 50", rec.Len())
	}
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	NewLogSink(logger).Warn(Warning{Entity: "test_platform", RemovalVersion: "1.28.0.dev0"})

	out := buf.String()
	if !strings.Contains(out, "DEPRECATED: test_platform") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "1.28.0.dev0") {
		t.Errorf("log output missing removal version: %q", out)
	}

	Discard.Warn(Warning{Entity: "ignored"})
}
