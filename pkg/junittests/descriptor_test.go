// SPDX-License-Identifier: MPL-2.0

package junittests

import (
	"errors"
	"iter"
	"slices"
	"strings"
	"testing"

	"testgraph-cli/pkg/deprecation"
	"testgraph-cli/pkg/payload"
	"testgraph-cli/pkg/target"
)

var testAddress = target.Address{SpecPath: "tests/java/org/example", Name: "unit"}

func intPtr(n int) *int { return &n }

func TestConcurrencyMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode    ConcurrencyMode
		want    bool
		wantErr bool
	}{
		{"", true, false},
		{ConcurrencySerial, true, false},
		{ConcurrencyParallelClasses, true, false},
		{ConcurrencyParallelMethods, true, false},
		{ConcurrencyParallelClassesAndMethods, true, false},
		{"serial", false, true},
		{"BOGUS", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.mode.IsValid()
			if isValid != tt.want {
				t.Errorf("ConcurrencyMode(%q).IsValid() = %v, want %v", tt.mode, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("ConcurrencyMode(%q).IsValid() returned no errors, want error", tt.mode)
				}
				if !errors.Is(errs[0], ErrInvalidConcurrencyMode) {
					t.Errorf("error should wrap ErrInvalidConcurrencyMode, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("ConcurrencyMode(%q).IsValid() returned unexpected errors: %v", tt.mode, errs)
			}
		})
	}
}

func TestConcurrencyMode_IsParallel(t *testing.T) {
	t.Parallel()

	if ConcurrencySerial.IsParallel() || ConcurrencyMode("").IsParallel() {
		t.Error("serial and unset modes must not be parallel")
	}
	for _, m := range ValidConcurrencyModes()[1:] {
		if !m.IsParallel() {
			t.Errorf("%s should be parallel", m)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	j, err := New(testAddress, Args{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if j.Concurrency() != "" || j.Cwd() != "" || j.RuntimePlatform() != "" {
		t.Errorf("unexpected defaults: concurrency=%q cwd=%q runtime_platform=%q", j.Concurrency(), j.Cwd(), j.RuntimePlatform())
	}
	if _, ok := j.Threads(); ok {
		t.Error("Threads() should be unset")
	}
	if _, ok := j.Timeout(); ok {
		t.Error("Timeout() should be unset")
	}
	if got := j.ExtraJVMOptions(); len(got) != 0 {
		t.Errorf("ExtraJVMOptions() = %v, want empty", got)
	}
	if got := j.ExtraEnvVars(); len(got) != 0 {
		t.Errorf("ExtraEnvVars() = %v, want empty", got)
	}
	if got := j.Sources(); !slices.Equal(got, []string{"*Test.java", "*Test.scala", "*Spec.scala"}) {
		t.Errorf("Sources() = %v, want default test globs", got)
	}
	if j.Address() != testAddress {
		t.Errorf("Address() = %v", j.Address())
	}
}

func TestNew_AllFields(t *testing.T) {
	t.Parallel()

	j, err := New(testAddress, Args{
		Cwd:             "tests/java",
		Timeout:         intPtr(120),
		ExtraJVMOptions: []string{"-Dexample.property=1", "-Xmx4g"},
		ExtraEnvVars:    map[string]any{"FOO": "bar"},
		Concurrency:     ConcurrencyParallelClasses,
		Threads:         "8",
		RuntimePlatform: "java11",
		Fields: target.Fields{
			target.FieldDependencies: []string{":helpers"},
			target.FieldSources:      []string{"FooTest.java"},
			target.FieldTags:         []string{"integration"},
			target.FieldDescription:  "example tests",
			target.FieldPlatform:     "java8",
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if j.Cwd() != "tests/java" {
		t.Errorf("Cwd() = %q", j.Cwd())
	}
	if n, ok := j.Timeout(); !ok || n != 120 {
		t.Errorf("Timeout() = %d, %v", n, ok)
	}
	if n, ok := j.Threads(); !ok || n != 8 {
		t.Errorf("Threads() = %d, %v", n, ok)
	}
	if j.Concurrency() != ConcurrencyParallelClasses {
		t.Errorf("Concurrency() = %q", j.Concurrency())
	}
	if j.RuntimePlatform() != "java11" || j.Platform() != "java8" {
		t.Errorf("platforms = %q/%q", j.RuntimePlatform(), j.Platform())
	}
	if got := j.Sources(); !slices.Equal(got, []string{"FooTest.java"}) {
		t.Errorf("Sources() = %v", got)
	}
	if got := slices.Collect(j.DependencyAddressSpecs()); !slices.Equal(got, []target.AddressSpec{":helpers"}) {
		t.Errorf("DependencyAddressSpecs() = %v", got)
	}
	if j.Description() != "example tests" || !slices.Equal(j.Tags(), []string{"integration"}) {
		t.Errorf("Description()/Tags() = %q/%v", j.Description(), j.Tags())
	}
}

func TestNew_NegativeTimeoutAccepted(t *testing.T) {
	t.Parallel()

	j, err := New(testAddress, Args{Timeout: intPtr(-5)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if n, ok := j.Timeout(); !ok || n != -5 {
		t.Errorf("Timeout() = %d, %v, want -5, true", n, ok)
	}
}

func TestNew_Threads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     any
		want    int
		wantSet bool
		wantErr bool
	}{
		{"nil", nil, 0, false, false},
		{"int", 4, 4, true, false},
		{"int64", int64(6), 6, true, false},
		{"numeric string", "16", 16, true, false},
		{"padded string", " 2 ", 2, true, false},
		{"integral float", 3.0, 3, true, false},
		{"word", "four", 0, false, true},
		{"fraction string", "2.5", 0, false, true},
		{"empty string", "", 0, false, true},
		{"list", []int{1}, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			j, err := New(testAddress, Args{Threads: tt.raw})
			if tt.wantErr {
				if !errors.Is(err, target.ErrTargetDefinition) {
					t.Fatalf("New() error = %v, want ErrTargetDefinition", err)
				}
				if !errors.Is(err, ErrInvalidThreads) {
					t.Errorf("error should wrap ErrInvalidThreads, got: %v", err)
				}
				if !strings.Contains(err.Error(), "'threads' must be an integer") {
					t.Errorf("error should name the field, got %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			n, ok := j.Threads()
			if n != tt.want || ok != tt.wantSet {
				t.Errorf("Threads() = %d, %v, want %d, %v", n, ok, tt.want, tt.wantSet)
			}
		})
	}
}

func TestNew_InvalidConcurrencyListsValidModes(t *testing.T) {
	t.Parallel()

	_, err := New(testAddress, Args{Concurrency: "BOGUS"})
	if !errors.Is(err, target.ErrTargetDefinition) {
		t.Fatalf("New() error = %v, want ErrTargetDefinition", err)
	}
	if !errors.Is(err, ErrInvalidConcurrencyMode) {
		t.Errorf("error should wrap ErrInvalidConcurrencyMode, got %v", err)
	}

	msg := err.Error()
	for _, m := range ValidConcurrencyModes() {
		if !strings.Contains(msg, string(m)) {
			t.Errorf("error %q does not list %s", msg, m)
		}
	}
	if !strings.HasSuffix(msg, "got: BOGUS") {
		t.Errorf("error %q does not end with the offending value", msg)
	}
}

func TestNew_EnvVarCoercion(t *testing.T) {
	t.Parallel()

	unset := (*string)(nil)
	j, err := New(testAddress, Args{ExtraEnvVars: map[string]any{
		"FOO":   12,
		"BAR":   nil,
		"BAZ":   true,
		"OFF":   false,
		"QUX":   "x",
		"ZED":   unset,
		"FLOAT": 1.5,
	}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := map[string]*string{}
	var names []string
	for _, e := range j.ExtraEnvVars() {
		got[e.Name] = e.Value
		names = append(names, e.Name)
	}
	if !slices.IsSorted(names) {
		t.Errorf("ExtraEnvVars() not sorted by name: %v", names)
	}

	wantStrings := map[string]string{"FOO": "12", "BAZ": "True", "OFF": "False", "QUX": "x", "FLOAT": "1.5"}
	for name, want := range wantStrings {
		if got[name] == nil || *got[name] != want {
			t.Errorf("%s = %v, want %q", name, got[name], want)
		}
	}
	for _, name := range []string{"BAR", "ZED"} {
		v, ok := got[name]
		if !ok {
			t.Errorf("%s missing; unset entries must be kept", name)
		} else if v != nil {
			t.Errorf("%s = %q, want nil (unset)", name, *v)
		}
	}
}

func TestNew_DoesNotMutateArgs(t *testing.T) {
	t.Parallel()

	env := map[string]any{"FOO": 12}
	fields := target.Fields{FieldTestPlatform: "java8"}
	opts := []string{"-Xmx1g"}

	j, err := New(testAddress, Args{ExtraEnvVars: env, Fields: fields, ExtraJVMOptions: opts})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if env["FOO"] != 12 {
		t.Errorf("ExtraEnvVars mutated: %v", env)
	}
	if !fields.Has(FieldTestPlatform) || len(fields) != 1 {
		t.Errorf("Fields mutated: %v", fields)
	}

	opts[0] = "changed"
	if j.ExtraJVMOptions()[0] != "-Xmx1g" {
		t.Error("descriptor shares the caller's options slice")
	}
	j.ExtraJVMOptions()[0] = "changed"
	if j.ExtraJVMOptions()[0] != "-Xmx1g" {
		t.Error("ExtraJVMOptions() leaks internal state")
	}
}

func TestNew_TestPlatformBridge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		runtime      string
		fields       target.Fields
		want         string
		wantWarnings int
		wantErr      string
	}{
		{"runtime only", "p", nil, "p", 0, ""},
		{"legacy only", "", target.Fields{FieldTestPlatform: "p"}, "p", 1, ""},
		{"legacy nil", "", target.Fields{FieldTestPlatform: nil}, "", 1, ""},
		{"both", "p", target.Fields{FieldTestPlatform: "q"}, "", 1, "Cannot specify runtime_platform and test_platform together."},
		{"runtime in generic fields", "", target.Fields{target.FieldRuntimePlatform: "r"}, "r", 0, ""},
		{"runtime twice", "p", target.Fields{target.FieldRuntimePlatform: "r"}, "", 0, "runtime_platform specified twice"},
		{"legacy and generic runtime", "", target.Fields{target.FieldRuntimePlatform: "r", FieldTestPlatform: "q"}, "", 1, "Cannot specify runtime_platform and test_platform together."},
		{"legacy not a string", "", target.Fields{FieldTestPlatform: []string{"p"}}, "", 1, "must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &deprecation.Recorder{}
			j, err := New(testAddress, Args{RuntimePlatform: tt.runtime, Fields: tt.fields}, WithDeprecationSink(rec))

			if rec.Len() != tt.wantWarnings {
				t.Errorf("recorded %d deprecation warnings, want %d", rec.Len(), tt.wantWarnings)
			}
			if tt.wantErr != "" {
				if !errors.Is(err, target.ErrTargetDefinition) {
					t.Fatalf("New() error = %v, want ErrTargetDefinition", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if j.RuntimePlatform() != tt.want {
				t.Errorf("RuntimePlatform() = %q, want %q", j.RuntimePlatform(), tt.want)
			}
		})
	}
}

func TestNew_LegacyWarningContent(t *testing.T) {
	t.Parallel()

	rec := &deprecation.Recorder{}
	if _, err := New(testAddress, Args{Fields: target.Fields{FieldTestPlatform: "p"}}, WithDeprecationSink(rec)); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w := rec.Warnings()[0]
	if w.Entity != FieldTestPlatform || w.RemovalVersion != TestPlatformRemovalVersion || w.Hint != "Replaced with runtime_platform." {
		t.Errorf("warning = %+v", w)
	}
}

func TestTestPlatform_WarnsOnEveryAccess(t *testing.T) {
	t.Parallel()

	rec := &deprecation.Recorder{}
	j, err := New(testAddress, Args{RuntimePlatform: "java11"}, WithDeprecationSink(rec))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if rec.Len() != 0 {
		t.Fatalf("construction with runtime_platform warned %d times", rec.Len())
	}

	for i := 1; i <= 3; i++ {
		if got := j.TestPlatform(); got != "java11" {
			t.Fatalf("TestPlatform() = %q, want java11", got)
		}
		if rec.Len() != i {
			t.Errorf("after %d accesses recorded %d warnings", i, rec.Len())
		}
	}
	if j.RuntimePlatform() != "java11" || rec.Len() != 3 {
		t.Error("RuntimePlatform() must not warn")
	}
}

func TestNew_FingerprintPartition(t *testing.T) {
	t.Parallel()

	p := payload.New()
	j, err := New(testAddress, Args{
		Payload:         p,
		Cwd:             "x",
		Timeout:         intPtr(1),
		Concurrency:     ConcurrencySerial,
		Threads:         2,
		ExtraJVMOptions: []string{"-ea"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if j.Payload() != p {
		t.Error("descriptor should register into the supplied payload")
	}
	for _, name := range FingerprintedFieldNames() {
		if !p.Has(name) {
			t.Errorf("payload is missing fingerprinted field %q", name)
		}
	}
	for _, name := range ExecutionOnlyFieldNames() {
		if p.Has(name) {
			t.Errorf("payload contains execution-only field %q", name)
		}
	}

	field, _ := p.Get(FieldExtraJVMOptions)
	if got := field.Value().([]string); !slices.Equal(got, []string{"-ea"}) {
		t.Errorf("extra_jvm_options payload value = %v", got)
	}
}

func TestNew_EmptyJVMOptionsFingerprintAsEmptyList(t *testing.T) {
	t.Parallel()

	p := payload.New()
	if _, err := New(testAddress, Args{Payload: p}); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	field, ok := p.Get(FieldExtraJVMOptions)
	if !ok {
		t.Fatal("extra_jvm_options missing from payload")
	}
	got, _ := field.Value().([]string)
	if got == nil || len(got) != 0 {
		t.Errorf("extra_jvm_options payload value = %#v, want empty non-nil list", field.Value())
	}
}

func TestNew_PayloadCollision(t *testing.T) {
	t.Parallel()

	p := payload.New()
	_ = p.AddField(FieldExtraEnvVars, payload.NewPrimitiveField(nil))
	_, err := New(testAddress, Args{Payload: p})
	if !errors.Is(err, target.ErrTargetDefinition) || !errors.Is(err, payload.ErrDuplicateField) {
		t.Errorf("New() error = %v, want a definition error wrapping ErrDuplicateField", err)
	}
}

func TestNew_UnknownFieldRejectedByBase(t *testing.T) {
	t.Parallel()

	_, err := New(testAddress, Args{Fields: target.Fields{"test_platfrom": "typo"}})
	if !errors.Is(err, target.ErrTargetDefinition) {
		t.Errorf("New() error = %v, want ErrTargetDefinition", err)
	}
}

type stubBase struct {
	address target.Address
	payload *payload.Payload
	fields  target.Fields
}

func (s *stubBase) Address() target.Address   { return s.address }
func (s *stubBase) Payload() *payload.Payload { return s.payload }
func (s *stubBase) Sources() []string         { return nil }
func (s *stubBase) Platform() string          { return "" }
func (s *stubBase) Tags() []string            { return nil }
func (s *stubBase) Description() string       { return "" }

func (s *stubBase) DependencyAddressSpecs() iter.Seq[target.AddressSpec] {
	return target.ComputeDependencyAddressSpecs(s.fields)
}

func (s *stubBase) RuntimePlatform() string {
	v, _ := s.fields[target.FieldRuntimePlatform].(string)
	return v
}

func TestNew_DelegatesToBaseConstructor(t *testing.T) {
	t.Parallel()

	var seen target.Fields
	base := func(addr target.Address, p *payload.Payload, fields target.Fields) (BaseTestTarget, error) {
		seen = fields
		if !p.Has(FieldExtraJVMOptions) || !p.Has(FieldExtraEnvVars) {
			t.Error("fingerprinted fields must be registered before the base constructor runs")
		}
		return &stubBase{address: addr, payload: p, fields: fields}, nil
	}

	j, err := New(testAddress, Args{Fields: target.Fields{FieldTestPlatform: "legacy", "extra": 1}}, WithBaseConstructor(base))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if seen.Has(FieldTestPlatform) {
		t.Error("legacy key should be removed before delegation")
	}
	if seen[target.FieldRuntimePlatform] != "legacy" {
		t.Errorf("runtime_platform passed to base = %v, want legacy", seen[target.FieldRuntimePlatform])
	}
	if seen["extra"] != 1 {
		t.Error("unrelated generic fields should pass through")
	}
	if j.RuntimePlatform() != "legacy" {
		t.Errorf("RuntimePlatform() = %q", j.RuntimePlatform())
	}

	wantErr := errors.New("base failed")
	_, err = New(testAddress, Args{}, WithBaseConstructor(func(target.Address, *payload.Payload, target.Fields) (BaseTestTarget, error) {
		return nil, wantErr
	}))
	if !errors.Is(err, wantErr) {
		t.Errorf("New() error = %v, want base constructor error", err)
	}
}

func TestSourceGlobs(t *testing.T) {
	t.Parallel()

	if got := JavaTestGlobs(); !slices.Equal(got, []string{"*Test.java"}) {
		t.Errorf("JavaTestGlobs() = %v", got)
	}
	if got := ScalaTestGlobs(); !slices.Equal(got, []string{"*Test.scala", "*Spec.scala"}) {
		t.Errorf("ScalaTestGlobs() = %v", got)
	}
	globs := DefaultSourceGlobs()
	globs[0] = "mutated"
	if JavaTestGlobs()[0] != "*Test.java" {
		t.Error("DefaultSourceGlobs() leaks package state")
	}
}
