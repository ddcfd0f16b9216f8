// SPDX-License-Identifier: MPL-2.0

// Package target provides the base build-graph target that specific target
// kinds (such as junit_tests) compose with.
//
// A base target owns the node identity (its Address), the generic declared
// fields shared by every JVM target (dependencies, sources, platform,
// runtime_platform, tags, description) and the fingerprint Payload. Unknown
// generic fields are rejected at construction so that renamed or misspelled
// fields never silently enter the build graph.
package target
