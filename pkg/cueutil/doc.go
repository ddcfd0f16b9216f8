// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Build files and the configuration file both follow the same flow: compile
// the schema, compile the user document, unify it with a schema definition,
// validate, and decode into a Go value. Validation failures come back as an
// *InputError whose issues carry JSON-style paths such as
// "junit_tests[0].concurrency".
//
//	//go:embed buildfile_schema.cue
//	var schema []byte
//
//	res, err := cueutil.Decode[rawFile](schema, data, "#BuildFile",
//	    cueutil.WithFilename("BUILD.cue"))
package cueutil
