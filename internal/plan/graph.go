// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"

	"testgraph-cli/internal/dag"
	"testgraph-cli/pkg/junittests"
	"testgraph-cli/pkg/target"
)

// Graph returns the build-order graph of targets: an edge runs from each
// dependency, injected libraries included, to the target that needs it.
// Relative specs resolve against the declaring target's spec path. Targets
// are added first so they keep their declaration order.
func (r *Resolver) Graph(targets []*junittests.JUnitTests) (*dag.Graph[string], error) {
	g := dag.New[string]()
	for _, t := range targets {
		g.AddNode(t.Address().Spec())
	}
	for _, t := range targets {
		addr := t.Address()
		for spec := range t.DependencyAddressSpecsWithInjected(r.injector) {
			dep, err := target.ParseAddressSpec(spec, addr.SpecPath)
			if err != nil {
				return nil, fmt.Errorf("target %s: %w", addr.Spec(), err)
			}
			g.AddEdge(dep.Spec(), addr.Spec())
		}
	}
	return g, nil
}

// Order returns targets and their dependencies in build order.
func (r *Resolver) Order(targets []*junittests.JUnitTests) ([]string, error) {
	g, err := r.Graph(targets)
	if err != nil {
		return nil, err
	}
	return g.TopologicalSort()
}
