// SPDX-License-Identifier: MPL-2.0

// Package deprecation reports use of deprecated build-file fields and accessors.
//
// Deprecations are never fatal: they are surfaced as warnings on a Sink and
// control flow continues with the documented fallback. Conditional covers
// "this field was declared" checks at construction time; Wrap covers legacy
// accessors that must warn on every call.
package deprecation
