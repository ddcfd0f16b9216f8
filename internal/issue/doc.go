// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into user-facing guidance.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. The issue catalog holds longer Markdown
// explanations, rendered with glamour, for the failures users hit most.
package issue
