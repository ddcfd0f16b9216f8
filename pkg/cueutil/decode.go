// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Decoded is a successfully validated document.
type Decoded[T any] struct {
	// Value is the document decoded into T.
	Value T
	// Unified is the schema-unified CUE value, for callers that need to
	// inspect individual nodes (source positions, per-entry validation).
	Unified cue.Value
}

// Decode validates data against the definition named by definition (e.g.
// "#BuildFile") inside schema and decodes it into T.
//
// Schema problems are programming errors and are reported as plain errors.
// Problems in data are reported as *InputError.
func Decode[T any](schema, data []byte, definition string, opts ...Option) (*Decoded[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if int64(len(data)) > o.maxFileSize {
		return nil, &InputError{Filename: o.filename, Issues: []Issue{{
			Message: fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", len(data), o.maxFileSize),
		}}}
	}

	unified, err := Unify(cuecontext.New(), schema, data, definition, o.filename)
	if err != nil {
		return nil, err
	}

	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, NewInputError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, NewInputError(err, o.filename)
	}
	return &Decoded[T]{Value: out, Unified: unified}, nil
}

// Unify compiles schema and data in ctx and unifies data with the schema
// definition without validating the result.
func Unify(ctx *cue.Context, schema, data []byte, definition, filename string) (cue.Value, error) {
	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(definition))
	if err := root.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s: %w", definition, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if err := userValue.Err(); err != nil {
		return cue.Value{}, NewInputError(err, filename)
	}
	return root.Unify(userValue), nil
}
