// SPDX-License-Identifier: MPL-2.0

// Package config loads testgraph settings with Viper, using CUE as the file format.
//
// The file is config.cue in the user configuration directory
// ($XDG_CONFIG_HOME/testgraph on Linux), falling back to ./config.cue. It is
// validated against the embedded config_schema.cue before being merged over
// the defaults. Environment variables prefixed with TESTGRAPH_ override file
// values, with "." in a key written as "_" (TESTGRAPH_JUNIT_PARALLEL_THREADS).
package config
