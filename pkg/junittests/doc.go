// SPDX-License-Identifier: MPL-2.0

// Package junittests implements the junit_tests build-graph target: a group of
// JUnit and Scala-spec test sources run as one unit.
//
// A JUnitTests value is validated completely by New and is immutable
// afterwards, so it can be shared by any number of readers. Its fields fall
// into two groups:
//
//   - fingerprinted: extra_jvm_options and extra_env_vars are registered into
//     the target's payload and take part in build identity;
//   - execution-only: cwd, concurrency, threads and timeout are kept on the
//     descriptor and never fingerprinted.
//
// The legacy test_platform field is accepted with a deprecation warning and
// forwarded to runtime_platform.
package junittests
