// SPDX-License-Identifier: MPL-2.0

// Package jvmplatform holds the named JVM platforms targets refer to through
// their platform and runtime_platform fields.
package jvmplatform

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var (
	// ErrUnknownPlatform is the sentinel error wrapped by UnknownPlatformError.
	ErrUnknownPlatform = errors.New("unknown jvm platform")
	// ErrInvalidPlatform is returned when a platform definition is malformed.
	ErrInvalidPlatform = errors.New("invalid jvm platform")
)

type (
	// Platform is a named JVM configuration.
	Platform struct {
		Name   string   `json:"name" yaml:"name" toml:"name"`
		Source string   `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
		Target string   `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
		Args   []string `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	}

	// UnknownPlatformError is returned when a platform name is not registered.
	// It wraps ErrUnknownPlatform for errors.Is() compatibility.
	UnknownPlatformError struct {
		Name  string
		Known []string
	}

	// Registry resolves platform names. It is immutable after NewRegistry.
	Registry struct {
		platforms              map[string]Platform
		defaultPlatform        string
		defaultRuntimePlatform string
	}

	// Options configures a Registry.
	Options struct {
		Platforms []Platform
		// DefaultPlatform is used when a target names no platform at all.
		DefaultPlatform string
		// DefaultRuntimePlatform takes precedence over a target's compile platform
		// when the target names no runtime platform.
		DefaultRuntimePlatform string
	}
)

// Error implements the error interface for UnknownPlatformError.
func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown jvm platform %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Unwrap returns ErrUnknownPlatform for errors.Is() compatibility.
func (e *UnknownPlatformError) Unwrap() error { return ErrUnknownPlatform }

// NewRegistry validates opts and builds a Registry.
func NewRegistry(opts Options) (*Registry, error) {
	r := &Registry{
		platforms:              make(map[string]Platform, len(opts.Platforms)),
		defaultPlatform:        opts.DefaultPlatform,
		defaultRuntimePlatform: opts.DefaultRuntimePlatform,
	}
	for _, p := range opts.Platforms {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: platform name must not be empty", ErrInvalidPlatform)
		}
		if _, dup := r.platforms[p.Name]; dup {
			return nil, fmt.Errorf("%w: platform %q defined twice", ErrInvalidPlatform, p.Name)
		}
		p.Args = slices.Clone(p.Args)
		r.platforms[p.Name] = p
	}
	for _, name := range []string{opts.DefaultPlatform, opts.DefaultRuntimePlatform} {
		if name == "" {
			continue
		}
		if _, err := r.Lookup(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Names returns the registered platform names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named platform.
func (r *Registry) Lookup(name string) (Platform, error) {
	p, ok := r.platforms[name]
	if !ok {
		return Platform{}, &UnknownPlatformError{Name: name, Known: r.Names()}
	}
	p.Args = slices.Clone(p.Args)
	return p, nil
}

// ResolveRuntime picks the platform tests run on: the explicit runtime
// platform, else the registry's default runtime platform, else the target's
// compile platform, else the registry's default platform. ok is false when
// none of those is set.
func (r *Registry) ResolveRuntime(runtimePlatform, platform string) (p Platform, ok bool, err error) {
	for _, name := range []string{runtimePlatform, r.defaultRuntimePlatform, platform, r.defaultPlatform} {
		if name == "" {
			continue
		}
		p, err = r.Lookup(name)
		if err != nil {
			return Platform{}, false, err
		}
		return p, true, nil
	}
	return Platform{}, false, nil
}
