// SPDX-License-Identifier: MPL-2.0

// Package payload provides the ordered field container that build-graph targets
// use to register the fields participating in their content fingerprint.
//
// Targets contribute fields during construction and the payload is frozen once
// the target is built. Fields that only affect execution (working directory,
// timeouts, thread counts) are never added to a payload.
package payload
