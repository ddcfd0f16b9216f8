// SPDX-License-Identifier: MPL-2.0

// Package plan resolves the settings a test runner applies to a junit_tests
// target by combining the target's declared fields with the runner-wide
// configuration.
package plan

import (
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"

	"testgraph-cli/internal/config"
	"testgraph-cli/pkg/injectables"
	"testgraph-cli/pkg/junittests"
	"testgraph-cli/pkg/jvmplatform"
	"testgraph-cli/pkg/target"
)

type (
	// Settings are the effective run settings of one target.
	Settings struct {
		Target      string                     `json:"target" yaml:"target" toml:"target"`
		Concurrency junittests.ConcurrencyMode `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
		Threads     int                        `json:"threads" yaml:"threads" toml:"threads"`
		// Cwd is relative to the build root; "" is the build root itself.
		Cwd string `json:"cwd" yaml:"cwd" toml:"cwd"`
		// TimeoutSeconds of 0 means no timeout.
		TimeoutSeconds  int                  `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
		RuntimePlatform *jvmplatform.Platform `json:"runtime_platform,omitempty" yaml:"runtime_platform,omitempty" toml:"runtime_platform,omitempty"`
		JVMOptions      []string             `json:"jvm_options" yaml:"jvm_options" toml:"jvm_options"`
		Env             []junittests.EnvVar  `json:"env" yaml:"env" toml:"env"`
		Dependencies    []target.AddressSpec `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
		Sources         []string             `json:"sources" yaml:"sources" toml:"sources"`
		Fingerprint     string               `json:"fingerprint" yaml:"fingerprint" toml:"fingerprint"`
	}

	// Resolver computes Settings. It is safe for concurrent use.
	Resolver struct {
		junit     config.JUnitConfig
		platforms *jvmplatform.Registry
		injector  injectables.Provider
		logger    *log.Logger
		numCPU    func() int
	}

	// Option configures a Resolver.
	Option func(*Resolver)
)

// WithNumCPU replaces runtime.NumCPU when parallel_threads is 0.
func WithNumCPU(fn func() int) Option {
	return func(r *Resolver) {
		r.numCPU = fn
	}
}

// NewResolver builds a Resolver from cfg. Warnings go to logger; a nil
// logger discards them.
func NewResolver(cfg *config.Config, logger *log.Logger, opts ...Option) (*Resolver, error) {
	platforms, err := cfg.JVMPlatform.Registry()
	if err != nil {
		return nil, err
	}
	injector, err := cfg.JUnit.InjectableRegistry()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Resolver{
		junit:     cfg.JUnit,
		platforms: platforms,
		injector:  injector,
		logger:    logger,
		numCPU:    runtime.NumCPU,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Injector returns the provider of injected dependencies.
func (r *Resolver) Injector() injectables.Provider { return r.injector }

// Resolve computes the settings for t.
func (r *Resolver) Resolve(t *junittests.JUnitTests) (*Settings, error) {
	addr := t.Address().Spec()
	s := &Settings{
		Target:       addr,
		Concurrency:  t.Concurrency(),
		Cwd:          t.Cwd(),
		Env:          t.ExtraEnvVars(),
		Dependencies: slices.Collect(t.DependencyAddressSpecsWithInjected(r.injector)),
		Sources:      t.Sources(),
	}

	if s.Concurrency == "" {
		s.Concurrency = r.junit.DefaultConcurrency
	}
	if s.Cwd == "" {
		s.Cwd = r.junit.Cwd
	}

	if n, ok := t.Threads(); ok {
		s.Threads = n
	} else {
		s.Threads = r.junit.ParallelThreads
	}
	if s.Threads <= 0 {
		s.Threads = r.numCPU()
	}

	s.TimeoutSeconds = r.timeout(addr, t)

	platform, ok, err := r.platforms.ResolveRuntime(t.RuntimePlatform(), t.Platform())
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", addr, err)
	}
	if ok {
		s.RuntimePlatform = &platform
		s.JVMOptions = append(s.JVMOptions, platform.Args...)
	}
	s.JVMOptions = append(s.JVMOptions, t.ExtraJVMOptions()...)
	if s.JVMOptions == nil {
		s.JVMOptions = []string{}
	}

	if s.Fingerprint, err = t.TestFingerprint(); err != nil {
		return nil, fmt.Errorf("target %s: %w", addr, err)
	}
	return s, nil
}

// timeout applies the global timeout switch, the default and the maximum.
func (r *Resolver) timeout(addr string, t *junittests.JUnitTests) int {
	if !r.junit.Timeouts {
		return 0
	}
	seconds, ok := t.Timeout()
	if !ok {
		seconds = r.junit.TimeoutDefault
	}
	if seconds <= 0 {
		return 0
	}
	if limit := r.junit.TimeoutMaximum; limit > 0 && seconds > limit {
		r.logger.Warn("timeout exceeds maximum, using maximum",
			"target", addr, "timeout", seconds, "maximum", limit)
		return limit
	}
	return seconds
}
