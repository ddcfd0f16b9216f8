// SPDX-License-Identifier: MPL-2.0

package target

import (
	"iter"
	"slices"
	"strings"

	"testgraph-cli/pkg/payload"
)

// Target is the base build-graph node. Specific target kinds embed or wrap it
// and contribute their own fingerprint fields to the payload before calling New.
type Target struct {
	address         Address
	payload         *payload.Payload
	dependencies    []AddressSpec
	sources         []string
	platform        string
	runtimePlatform string
	tags            []string
	description     string
}

// New builds a base target. It consumes the generic fields it understands and
// fails with a TargetDefinitionError on any other key, then registers the
// sources and platform fields into p and freezes it. fields is not modified.
func New(address Address, p *payload.Payload, fields Fields) (*Target, error) {
	if address.Name == "" {
		return nil, NewDefinitionError(address, "target name must not be empty")
	}
	if p == nil {
		p = payload.New()
	}
	remaining := fields.Clone()
	t := &Target{address: address, payload: p}

	if v, ok := remaining.Pop(FieldDependencies); ok {
		deps, err := stringListField(FieldDependencies, v)
		if err != nil {
			return nil, wrapDefinition(address, err)
		}
		for _, dep := range deps {
			spec := AddressSpec(dep)
			if _, err := ParseAddressSpec(spec, address.SpecPath); err != nil {
				return nil, wrapDefinition(address, err)
			}
			t.dependencies = append(t.dependencies, spec)
		}
	}

	var err error
	if v, ok := remaining.Pop(FieldSources); ok {
		if t.sources, err = stringListField(FieldSources, v); err != nil {
			return nil, wrapDefinition(address, err)
		}
	}
	if v, ok := remaining.Pop(FieldTags); ok {
		if t.tags, err = stringListField(FieldTags, v); err != nil {
			return nil, wrapDefinition(address, err)
		}
	}
	if v, ok := remaining.Pop(FieldPlatform); ok {
		if t.platform, err = stringField(FieldPlatform, v); err != nil {
			return nil, wrapDefinition(address, err)
		}
	}
	if v, ok := remaining.Pop(FieldRuntimePlatform); ok {
		if t.runtimePlatform, err = stringField(FieldRuntimePlatform, v); err != nil {
			return nil, wrapDefinition(address, err)
		}
	}
	if v, ok := remaining.Pop(FieldDescription); ok {
		if t.description, err = stringField(FieldDescription, v); err != nil {
			return nil, wrapDefinition(address, err)
		}
	}

	if len(remaining) > 0 {
		return nil, NewDefinitionError(address, "unrecognized field(s): %s", strings.Join(remaining.SortedKeys(), ", "))
	}

	if err := p.AddFields(map[string]payload.Field{
		FieldSources:         payload.NewPrimitiveField(slices.Clone(t.sources)),
		FieldPlatform:        payload.NewPrimitiveField(t.platform),
		FieldRuntimePlatform: payload.NewPrimitiveField(t.runtimePlatform),
	}); err != nil {
		return nil, wrapDefinition(address, err)
	}
	p.Freeze()

	return t, nil
}

// ComputeDependencyAddressSpecs yields the specs declared under "dependencies"
// in declaration order. Values that are not string lists yield nothing; New
// reports those as definition errors.
func ComputeDependencyAddressSpecs(fields Fields) iter.Seq[AddressSpec] {
	return func(yield func(AddressSpec) bool) {
		deps, err := stringListField(FieldDependencies, fields[FieldDependencies])
		if err != nil {
			return
		}
		for _, dep := range deps {
			if !yield(AddressSpec(dep)) {
				return
			}
		}
	}
}

// Address returns the target's identity.
func (t *Target) Address() Address { return t.address }

// Payload returns the frozen fingerprint payload.
func (t *Target) Payload() *payload.Payload { return t.payload }

// DependencyAddressSpecs iterates the declared dependencies in order.
func (t *Target) DependencyAddressSpecs() iter.Seq[AddressSpec] {
	return slices.Values(t.dependencies)
}

// Sources returns the declared source globs.
func (t *Target) Sources() []string { return slices.Clone(t.sources) }

// Platform returns the compile platform name ("" = registry default).
func (t *Target) Platform() string { return t.platform }

// RuntimePlatform returns the runtime platform name ("" = registry default).
func (t *Target) RuntimePlatform() string { return t.runtimePlatform }

// Tags returns the declared tags.
func (t *Target) Tags() []string { return slices.Clone(t.tags) }

// Description returns the declared description.
func (t *Target) Description() string { return t.description }

func wrapDefinition(addr Address, err error) *TargetDefinitionError {
	return &TargetDefinitionError{Address: addr, Message: err.Error(), Cause: err}
}
