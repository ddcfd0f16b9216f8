// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/exp/maps"
)

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
// The test fails immediately if the operation fails.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteTree writes files, keyed by slash-separated paths relative to root,
// in path order.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	paths := maps.Keys(files)
	slices.Sort(paths)
	for _, rel := range paths {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), files[rel])
	}
}
