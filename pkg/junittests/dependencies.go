// SPDX-License-Identifier: MPL-2.0

package junittests

import (
	"iter"

	"testgraph-cli/pkg/injectables"
	"testgraph-cli/pkg/payload"
	"testgraph-cli/pkg/target"
)

// ComputeDependencyAddressSpecs yields the base target's dependency specs in
// declaration order, followed by the test-framework libraries injected under
// the "library" key. Nothing is deduplicated or reordered. Every iteration
// recomputes the sequence from fields and injector.
func ComputeDependencyAddressSpecs(fields target.Fields, _ *payload.Payload, injector injectables.Provider) iter.Seq[target.AddressSpec] {
	return withInjected(target.ComputeDependencyAddressSpecs(fields), injector)
}

// DependencyAddressSpecsWithInjected yields the target's own dependency specs
// followed by the injected test-framework libraries.
func (j *JUnitTests) DependencyAddressSpecsWithInjected(injector injectables.Provider) iter.Seq[target.AddressSpec] {
	return withInjected(j.DependencyAddressSpecs(), injector)
}

func withInjected(base iter.Seq[target.AddressSpec], injector injectables.Provider) iter.Seq[target.AddressSpec] {
	return func(yield func(target.AddressSpec) bool) {
		for spec := range base {
			if !yield(spec) {
				return
			}
		}
		if injector == nil {
			return
		}
		for _, spec := range injector.AddressSpecsForKey(injectables.KeyLibrary) {
			if !yield(spec) {
				return
			}
		}
	}
}
