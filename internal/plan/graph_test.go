// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"
	"slices"
	"testing"

	"testgraph-cli/internal/dag"
	"testgraph-cli/pkg/junittests"
	"testgraph-cli/pkg/target"
)

func namedTarget(t *testing.T, name string, deps ...string) *junittests.JUnitTests {
	t.Helper()
	j, err := junittests.New(target.Address{SpecPath: "src/test", Name: name}, junittests.Args{
		Fields: target.Fields{target.FieldDependencies: deps},
	})
	if err != nil {
		t.Fatalf("junittests.New(%s) error = %v", name, err)
	}
	return j
}

func TestOrder(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.JUnit.Injectables = map[string][]string{"library": {"3rdparty:junit"}}
	r := newResolver(t, cfg, nil)

	got, err := r.Order([]*junittests.JUnitTests{
		namedTarget(t, "unit", ":helpers", "//lib:core"),
		namedTarget(t, "helpers"),
	})
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	want := []string{"lib:core", "3rdparty:junit", "src/test:helpers", "src/test:unit"}
	if !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestOrder_Cycle(t *testing.T) {
	t.Parallel()

	r := newResolver(t, testConfig(), nil)
	_, err := r.Order([]*junittests.JUnitTests{
		namedTarget(t, "a", ":b"),
		namedTarget(t, "b", ":a"),
	})
	if !errors.Is(err, dag.ErrCycle) {
		t.Fatalf("Order() error = %v, want ErrCycle", err)
	}
}

func TestGraph_DependentsOfInjectedLibrary(t *testing.T) {
	t.Parallel()

	r := newResolver(t, testConfig(), nil)
	g, err := r.Graph([]*junittests.JUnitTests{
		namedTarget(t, "unit"),
		namedTarget(t, "integration", ":unit"),
	})
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	got := g.Reachable("//:junit_library")
	if !slices.Equal(got, []string{"src/test:unit", "src/test:integration"}) {
		t.Errorf("Reachable() = %v", got)
	}
}
