// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"testgraph-cli/pkg/injectables"
	"testgraph-cli/pkg/junittests"
	"testgraph-cli/pkg/jvmplatform"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidJUnitConfig is the sentinel error wrapped by InvalidJUnitConfigError.
	ErrInvalidJUnitConfig = errors.New("invalid junit config")
	// ErrInvalidJVMPlatformConfig is the sentinel error wrapped by InvalidJVMPlatformConfigError.
	ErrInvalidJVMPlatformConfig = errors.New("invalid jvm_platform config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidJUnitConfigError collects field-level errors of a JUnitConfig.
	// It wraps ErrInvalidJUnitConfig for errors.Is() compatibility.
	InvalidJUnitConfigError struct {
		FieldErrors []error
	}

	// InvalidJVMPlatformConfigError collects field-level errors of a JVMPlatformConfig.
	// It wraps ErrInvalidJVMPlatformConfig for errors.Is() compatibility.
	InvalidJVMPlatformConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects the errors of every section.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// JUnit holds the runner-wide junit_tests defaults.
		JUnit JUnitConfig `json:"junit" mapstructure:"junit" yaml:"junit" toml:"junit"`
		// JVMPlatform defines the named JVM platforms.
		JVMPlatform JVMPlatformConfig `json:"jvm_platform" mapstructure:"jvm_platform" yaml:"jvm_platform" toml:"jvm_platform"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui" yaml:"ui" toml:"ui"`
	}

	// JUnitConfig holds the defaults a test runner applies to junit_tests targets.
	JUnitConfig struct {
		DefaultConcurrency junittests.ConcurrencyMode `json:"default_concurrency" mapstructure:"default_concurrency" yaml:"default_concurrency" toml:"default_concurrency"`
		// ParallelThreads of 0 means one thread per CPU.
		ParallelThreads int `json:"parallel_threads" mapstructure:"parallel_threads" yaml:"parallel_threads" toml:"parallel_threads"`
		// Timeouts gates every target timeout.
		Timeouts bool `json:"timeouts" mapstructure:"timeouts" yaml:"timeouts" toml:"timeouts"`
		// TimeoutDefault in seconds; 0 means none.
		TimeoutDefault int `json:"timeout_default" mapstructure:"timeout_default" yaml:"timeout_default" toml:"timeout_default"`
		// TimeoutMaximum in seconds; 0 means unbounded.
		TimeoutMaximum int    `json:"timeout_maximum" mapstructure:"timeout_maximum" yaml:"timeout_maximum" toml:"timeout_maximum"`
		Cwd            string `json:"cwd" mapstructure:"cwd" yaml:"cwd" toml:"cwd"`
		// Injectables maps injectable keys to address specs.
		Injectables map[string][]string `json:"injectables" mapstructure:"injectables" yaml:"injectables" toml:"injectables"`
	}

	// PlatformConfig is one named JVM platform.
	PlatformConfig struct {
		Source string   `json:"source" mapstructure:"source" yaml:"source" toml:"source"`
		Target string   `json:"target" mapstructure:"target" yaml:"target" toml:"target"`
		Args   []string `json:"args" mapstructure:"args" yaml:"args" toml:"args"`
	}

	// JVMPlatformConfig defines the platforms targets may name.
	JVMPlatformConfig struct {
		Platforms              map[string]PlatformConfig `json:"platforms" mapstructure:"platforms" yaml:"platforms" toml:"platforms"`
		DefaultPlatform        string                    `json:"default_platform" mapstructure:"default_platform" yaml:"default_platform" toml:"default_platform"`
		DefaultRuntimePlatform string                    `json:"default_runtime_platform" mapstructure:"default_runtime_platform" yaml:"default_runtime_platform" toml:"default_runtime_platform"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" yaml:"color_scheme" toml:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose" yaml:"verbose" toml:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		JUnit: JUnitConfig{
			DefaultConcurrency: junittests.ConcurrencySerial,
			ParallelThreads:    0,
			Timeouts:           true,
			Injectables:        injectables.DefaultJUnitMapping(),
		},
		JVMPlatform: JVMPlatformConfig{
			Platforms: map[string]PlatformConfig{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// IsValid checks the junit section. Unlike a target, the default concurrency
// must name an actual mode.
func (c JUnitConfig) IsValid() (bool, []error) {
	var errs []error
	if c.DefaultConcurrency == "" {
		errs = append(errs, errors.New("default_concurrency must not be empty"))
	} else if valid, fieldErrs := c.DefaultConcurrency.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.ParallelThreads < 0 {
		errs = append(errs, fmt.Errorf("parallel_threads must be >= 0, got %d", c.ParallelThreads))
	}
	if c.TimeoutDefault < 0 {
		errs = append(errs, fmt.Errorf("timeout_default must be >= 0, got %d", c.TimeoutDefault))
	}
	if c.TimeoutMaximum < 0 {
		errs = append(errs, fmt.Errorf("timeout_maximum must be >= 0, got %d", c.TimeoutMaximum))
	}
	if c.TimeoutMaximum > 0 && c.TimeoutDefault > c.TimeoutMaximum {
		errs = append(errs, fmt.Errorf("timeout_default (%d) exceeds timeout_maximum (%d)", c.TimeoutDefault, c.TimeoutMaximum))
	}
	if _, err := injectables.NewRegistry(c.Injectables); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidJUnitConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidJUnitConfigError.
func (e *InvalidJUnitConfigError) Error() string {
	return fmt.Sprintf("invalid junit config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidJUnitConfig for errors.Is() compatibility.
func (e *InvalidJUnitConfigError) Unwrap() error { return ErrInvalidJUnitConfig }

// IsValid checks that the platform definitions build a registry, which also
// requires both defaults to name defined platforms.
func (c JVMPlatformConfig) IsValid() (bool, []error) {
	if _, err := c.Registry(); err != nil {
		return false, []error{&InvalidJVMPlatformConfigError{FieldErrors: []error{err}}}
	}
	return true, nil
}

// Error implements the error interface for InvalidJVMPlatformConfigError.
func (e *InvalidJVMPlatformConfigError) Error() string {
	return fmt.Sprintf("invalid jvm_platform config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidJVMPlatformConfig for errors.Is() compatibility.
func (e *InvalidJVMPlatformConfigError) Unwrap() error { return ErrInvalidJVMPlatformConfig }

// Registry builds the platform registry, platforms in name order.
func (c JVMPlatformConfig) Registry() (*jvmplatform.Registry, error) {
	names := make([]string, 0, len(c.Platforms))
	for name := range c.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	platforms := make([]jvmplatform.Platform, 0, len(names))
	for _, name := range names {
		p := c.Platforms[name]
		platforms = append(platforms, jvmplatform.Platform{
			Name:   name,
			Source: p.Source,
			Target: p.Target,
			Args:   slices.Clone(p.Args),
		})
	}
	return jvmplatform.NewRegistry(jvmplatform.Options{
		Platforms:              platforms,
		DefaultPlatform:        c.DefaultPlatform,
		DefaultRuntimePlatform: c.DefaultRuntimePlatform,
	})
}

// InjectableRegistry builds the registry of injected dependencies.
func (c JUnitConfig) InjectableRegistry() (*injectables.Registry, error) {
	return injectables.NewRegistry(c.Injectables)
}

// IsValid returns whether every section is valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.JUnit.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.JVMPlatform.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
