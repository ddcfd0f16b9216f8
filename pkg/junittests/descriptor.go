// SPDX-License-Identifier: MPL-2.0

package junittests

import (
	"iter"
	"slices"

	"github.com/spf13/cast"

	"testgraph-cli/pkg/deprecation"
	"testgraph-cli/pkg/payload"
	"testgraph-cli/pkg/target"
)

// Field names owned by junit_tests.
const (
	FieldCwd             = "cwd"
	FieldTimeout         = "timeout"
	FieldExtraJVMOptions = "extra_jvm_options"
	FieldExtraEnvVars    = "extra_env_vars"
	FieldConcurrency     = "concurrency"
	FieldThreads         = "threads"
	FieldTestPlatform    = "test_platform"
)

// TestPlatformRemovalVersion is the release that drops test_platform.
const TestPlatformRemovalVersion deprecation.RemovalVersion = "1.28.0.dev0"

type (
	// BaseTestTarget is what a junit_tests target needs from its base target.
	BaseTestTarget interface {
		Address() target.Address
		Payload() *payload.Payload
		DependencyAddressSpecs() iter.Seq[target.AddressSpec]
		Sources() []string
		Platform() string
		RuntimePlatform() string
		Tags() []string
		Description() string
	}

	// BaseConstructor builds the base target from the payload and the generic fields.
	BaseConstructor func(address target.Address, p *payload.Payload, fields target.Fields) (BaseTestTarget, error)

	// Args is the declared configuration of a junit_tests target.
	Args struct {
		// Cwd is the working directory for the tests, relative to the build root.
		// Empty means the runner's --cwd setting decides.
		Cwd string
		// Payload receives the fingerprinted fields. A fresh payload is used when nil.
		Payload *payload.Payload
		// Timeout covers the total runtime of all tests in the target, in seconds.
		// Only applied when the runner has timeouts enabled.
		Timeout *int
		// ExtraJVMOptions are passed to the test JVM, e.g. "-Dexample.property=1".
		ExtraJVMOptions []string
		// ExtraEnvVars are set for the test JVM. Values are coerced to strings;
		// a nil value unsets the variable.
		ExtraEnvVars map[string]any
		// Concurrency overrides the runner's default concurrency.
		Concurrency ConcurrencyMode
		// Threads overrides the runner's parallel thread count. Any value that
		// coerces to an integer is accepted; nil means not set.
		Threads any
		// RuntimePlatform names the jvm platform tests run on.
		RuntimePlatform string
		// Fields holds the generic base-target fields (dependencies, sources,
		// platform, tags, description) and the legacy test_platform field.
		Fields target.Fields
	}

	// Option configures New.
	Option func(*options)

	options struct {
		deprecations deprecation.Sink
		newBase      BaseConstructor
	}

	// JUnitTests is a validated junit_tests target.
	JUnitTests struct {
		base BaseTestTarget

		cwd             string
		concurrency     ConcurrencyMode
		threads         int
		threadsSet      bool
		timeout         int
		timeoutSet      bool
		extraJVMOptions []string
		extraEnvVars    []EnvVar

		testPlatform func() string
	}
)

// WithDeprecationSink routes deprecation warnings to sink. The default drops them.
func WithDeprecationSink(sink deprecation.Sink) Option {
	return func(o *options) {
		o.deprecations = sink
	}
}

// WithBaseConstructor replaces the base target constructor.
func WithBaseConstructor(fn BaseConstructor) Option {
	return func(o *options) {
		o.newBase = fn
	}
}

func defaultBase(address target.Address, p *payload.Payload, fields target.Fields) (BaseTestTarget, error) {
	return target.New(address, p, fields)
}

// New validates args and builds the target. Any violated invariant yields a
// *target.TargetDefinitionError and no target. args is not modified.
func New(address target.Address, args Args, opts ...Option) (*JUnitTests, error) {
	o := options{deprecations: deprecation.Discard, newBase: defaultBase}
	for _, opt := range opts {
		opt(&o)
	}

	p := args.Payload
	if p == nil {
		p = payload.New()
	}

	envVars := normalizeEnvVars(args.ExtraEnvVars)

	fields := args.Fields.Clone()
	runtimePlatform, err := bridgeTestPlatform(address, fields, args.RuntimePlatform, o.deprecations)
	if err != nil {
		return nil, err
	}

	jvmOptions := slices.Clone(args.ExtraJVMOptions)
	if jvmOptions == nil {
		jvmOptions = []string{}
	}
	if err := p.AddFields(map[string]payload.Field{
		FieldExtraJVMOptions: payload.NewPrimitiveField(jvmOptions),
		FieldExtraEnvVars:    payload.NewPrimitiveField(slices.Clone(envVars)),
	}); err != nil {
		return nil, &target.TargetDefinitionError{Address: address, Message: err.Error(), Cause: err}
	}

	if !fields.Has(target.FieldSources) {
		fields[target.FieldSources] = DefaultSourceGlobs()
	}
	fields[target.FieldRuntimePlatform] = runtimePlatform
	base, err := o.newBase(address, p, fields)
	if err != nil {
		return nil, err
	}

	j := &JUnitTests{
		base:            base,
		cwd:             args.Cwd,
		concurrency:     args.Concurrency,
		extraJVMOptions: jvmOptions,
		extraEnvVars:    envVars,
	}
	if args.Timeout != nil {
		j.timeout, j.timeoutSet = *args.Timeout, true
	}

	j.threads, j.threadsSet, err = parseThreads(args.Threads)
	if err != nil {
		return nil, &target.TargetDefinitionError{Address: address, Message: err.Error(), Cause: err}
	}
	if valid, errs := args.Concurrency.IsValid(); !valid {
		return nil, &target.TargetDefinitionError{Address: address, Message: errs[0].Error(), Cause: errs[0]}
	}

	j.testPlatform = deprecation.Wrap(o.deprecations, TestPlatformRemovalVersion,
		"JUnitTests.TestPlatform", "Use RuntimePlatform", j.RuntimePlatform)

	return j, nil
}

// bridgeTestPlatform forwards the legacy test_platform field to
// runtime_platform, removing it from fields. A runtime_platform found among
// the generic fields is folded in the same way.
func bridgeTestPlatform(address target.Address, fields target.Fields, runtimePlatform string, sink deprecation.Sink) (string, error) {
	if v, ok := fields.Pop(target.FieldRuntimePlatform); ok {
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", target.NewDefinitionError(address, "field %q must be a string, got %T", target.FieldRuntimePlatform, v)
		}
		if runtimePlatform != "" && s != "" && s != runtimePlatform {
			return "", target.NewDefinitionError(address, "runtime_platform specified twice (%q and %q)", runtimePlatform, s)
		}
		if runtimePlatform == "" {
			runtimePlatform = s
		}
	}

	deprecation.Conditional(sink, func() bool { return fields.Has(FieldTestPlatform) },
		TestPlatformRemovalVersion, FieldTestPlatform, "Replaced with runtime_platform.")

	if !fields.Has(FieldTestPlatform) {
		return runtimePlatform, nil
	}
	if runtimePlatform != "" {
		return "", target.NewDefinitionError(address, "Cannot specify runtime_platform and test_platform together.")
	}
	v, _ := fields.Pop(FieldTestPlatform)
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", target.NewDefinitionError(address, "field %q must be a string, got %T", FieldTestPlatform, v)
	}
	return s, nil
}

// Address returns the target's identity.
func (j *JUnitTests) Address() target.Address { return j.base.Address() }

// Payload returns the target's frozen fingerprint payload.
func (j *JUnitTests) Payload() *payload.Payload { return j.base.Payload() }

// DependencyAddressSpecs iterates the declared dependencies in order.
func (j *JUnitTests) DependencyAddressSpecs() iter.Seq[target.AddressSpec] {
	return j.base.DependencyAddressSpecs()
}

// Sources returns the declared source globs (the default test globs when none were declared).
func (j *JUnitTests) Sources() []string { return j.base.Sources() }

// Platform returns the compile platform name.
func (j *JUnitTests) Platform() string { return j.base.Platform() }

// Tags returns the declared tags.
func (j *JUnitTests) Tags() []string { return j.base.Tags() }

// Description returns the declared description.
func (j *JUnitTests) Description() string { return j.base.Description() }

// Concurrency returns the declared concurrency ("" = global default).
func (j *JUnitTests) Concurrency() ConcurrencyMode { return j.concurrency }

// Cwd returns the declared working directory ("" = runner default).
func (j *JUnitTests) Cwd() string { return j.cwd }

// Threads returns the declared thread count; ok is false when unset.
func (j *JUnitTests) Threads() (n int, ok bool) { return j.threads, j.threadsSet }

// Timeout returns the declared timeout in seconds; ok is false when unset.
func (j *JUnitTests) Timeout() (seconds int, ok bool) { return j.timeout, j.timeoutSet }

// RuntimePlatform returns the runtime platform name ("" = registry default).
func (j *JUnitTests) RuntimePlatform() string { return j.base.RuntimePlatform() }

// TestPlatform returns RuntimePlatform.
//
// Deprecated: use RuntimePlatform. Every call emits a deprecation warning.
func (j *JUnitTests) TestPlatform() string { return j.testPlatform() }

// ExtraJVMOptions returns a copy of the extra JVM options.
func (j *JUnitTests) ExtraJVMOptions() []string { return slices.Clone(j.extraJVMOptions) }

// ExtraEnvVars returns a copy of the extra environment entries, sorted by name.
func (j *JUnitTests) ExtraEnvVars() []EnvVar {
	out := make([]EnvVar, len(j.extraEnvVars))
	for i, e := range j.extraEnvVars {
		out[i] = EnvVar{Name: e.Name, Value: envValue(e.Value)}
	}
	return out
}

// FingerprintedFieldNames lists the fields this target kind contributes to the payload.
func FingerprintedFieldNames() []string {
	return []string{FieldExtraJVMOptions, FieldExtraEnvVars}
}

// ExecutionOnlyFieldNames lists the declared fields that never reach the payload.
func ExecutionOnlyFieldNames() []string {
	return []string{FieldCwd, FieldConcurrency, FieldThreads, FieldTimeout}
}

// TestFingerprint hashes only the fields junit_tests contributes to the payload.
func (j *JUnitTests) TestFingerprint() (string, error) {
	return j.Payload().FingerprintOf(FingerprintedFieldNames()...)
}

// Fingerprint hashes the whole payload, base-target fields included.
func (j *JUnitTests) Fingerprint() (string, error) {
	return j.Payload().Fingerprint()
}
