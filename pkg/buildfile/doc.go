// SPDX-License-Identifier: MPL-2.0

// Package buildfile loads BUILD.cue files into junit_tests targets.
//
// Every entry under junit_tests is validated on its own: an entry that fails
// the schema or target construction is recorded in File.Invalid and the
// remaining entries still load.
package buildfile
