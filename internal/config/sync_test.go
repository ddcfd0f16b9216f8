// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests keep the Go struct JSON tags and the CUE schema field names
// aligned, so a renamed field cannot be silently dropped on load.

func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = iter.IsOptional()
	}
	return fields
}

func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}
	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = true
	}
	return fields
}

func assertFieldsSync(t *testing.T, def string, typ reflect.Type) {
	t.Helper()

	schema := cuecontext.New().CompileBytes(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}
	val := schema.LookupPath(cue.ParsePath(def))
	if val.Err() != nil {
		t.Fatalf("failed to lookup CUE definition %s: %v", def, val.Err())
	}

	cueFields := extractCUEFields(t, val)
	goFields := extractGoJSONTags(t, typ)
	for field := range cueFields {
		if !goFields[field] {
			t.Errorf("[%s] CUE field %q not found in Go struct %s", def, field, typ.Name())
		}
	}
	for field := range goFields {
		if _, ok := cueFields[field]; !ok {
			t.Errorf("[%s] Go JSON tag %q not found in CUE schema", def, field)
		}
	}
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#JUnitConfig", reflect.TypeFor[JUnitConfig]()},
		{"#JVMPlatformConfig", reflect.TypeFor[JVMPlatformConfig]()},
		{"#PlatformConfig", reflect.TypeFor[PlatformConfig]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()
			assertFieldsSync(t, tt.def, tt.typ)
		})
	}
}
