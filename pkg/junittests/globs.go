// SPDX-License-Identifier: MPL-2.0

package junittests

import "slices"

var (
	javaTestGlobs  = []string{"*Test.java"}
	scalaTestGlobs = []string{"*Test.scala", "*Spec.scala"}
)

// JavaTestGlobs returns the source globs matched for Java tests.
func JavaTestGlobs() []string { return slices.Clone(javaTestGlobs) }

// ScalaTestGlobs returns the source globs matched for Scala tests.
func ScalaTestGlobs() []string { return slices.Clone(scalaTestGlobs) }

// DefaultSourceGlobs returns the globs used when a target declares no sources:
// the Java globs followed by the Scala globs.
func DefaultSourceGlobs() []string {
	return slices.Concat(javaTestGlobs, scalaTestGlobs)
}
