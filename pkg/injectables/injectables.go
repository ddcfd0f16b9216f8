// SPDX-License-Identifier: MPL-2.0

// Package injectables maps well-known keys to the address specs a subsystem
// implicitly injects into targets, such as the test-framework runtime library
// every junit_tests target depends on.
package injectables

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"testgraph-cli/pkg/target"
)

// KeyLibrary is the key under which test-framework runtime libraries are registered.
const KeyLibrary = "library"

type (
	// Provider exposes injectable address specs by key.
	Provider interface {
		AddressSpecsForKey(key string) []target.AddressSpec
	}

	// Registry is an immutable Provider built from a key → specs mapping.
	Registry struct {
		specs map[string][]target.AddressSpec
	}
)

// DefaultJUnitMapping is the injectable mapping used when configuration does not override it.
func DefaultJUnitMapping() map[string][]string {
	return map[string][]string{KeyLibrary: {"//:junit_library"}}
}

// NewRegistry validates every spec in mapping and builds a Registry.
func NewRegistry(mapping map[string][]string) (*Registry, error) {
	r := &Registry{specs: make(map[string][]target.AddressSpec, len(mapping))}
	for key, specs := range mapping {
		if key == "" {
			return nil, errors.New("injectable key must not be empty")
		}
		converted := make([]target.AddressSpec, 0, len(specs))
		for _, s := range specs {
			spec := target.AddressSpec(s)
			if err := spec.Validate(); err != nil {
				return nil, fmt.Errorf("injectable %q: %w", key, err)
			}
			converted = append(converted, spec)
		}
		r.specs[key] = converted
	}
	return r, nil
}

// AddressSpecsForKey returns a copy of the specs registered under key, or nil.
func (r *Registry) AddressSpecsForKey(key string) []target.AddressSpec {
	if r == nil {
		return nil
	}
	return slices.Clone(r.specs[key])
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.specs))
	for k := range r.specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
