// SPDX-License-Identifier: MPL-2.0

package target

import (
	"fmt"
	"sort"

	"github.com/spf13/cast"
)

// Generic field names understood by every base target.
const (
	FieldDependencies    = "dependencies"
	FieldSources         = "sources"
	FieldPlatform        = "platform"
	FieldRuntimePlatform = "runtime_platform"
	FieldTags            = "tags"
	FieldDescription     = "description"
)

// Fields is the generic, kind-agnostic field set a target is declared with.
// Presence matters: a key mapped to nil is still "declared".
type Fields map[string]any

// Has reports whether key was declared, even with a nil value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Pop removes key and returns its value.
func (f Fields) Pop(key string) (any, bool) {
	v, ok := f[key]
	if ok {
		delete(f, key)
	}
	return v, ok
}

// Clone returns a shallow copy. Cloning a nil Fields yields an empty set.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// SortedKeys returns the declared keys in lexical order.
func (f Fields) SortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stringField coerces a scalar field to a string. nil yields "".
func stringField(key string, v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("field %q must be a string, got %T", key, v)
	}
	return s, nil
}

// stringListField coerces a list field to []string. A bare string is rejected
// rather than split, since that almost always means a missing list literal.
func stringListField(key string, v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), list...), nil
	case []AddressSpec:
		out := make([]string, len(list))
		for i, s := range list {
			out[i] = string(s)
		}
		return out, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, err := cast.ToStringE(item)
			if err != nil || item == nil {
				return nil, fmt.Errorf("field %q: element %d must be a string, got %T", key, i, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("field %q must be a list of strings, got %T", key, v)
	}
}
