// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for testgraph.
//
// Every command receives an *App, the composition root holding the config
// provider and the output streams, so tests can swap either.
package cmd
