// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	WriteTree(t, root, map[string]string{
		"BUILD.cue":               "junit_tests: []",
		"src/test/java/BUILD.cue": `junit_tests: [{name: "unit"}]`,
	})

	for rel, want := range map[string]string{
		"BUILD.cue":               "junit_tests: []",
		"src/test/java/BUILD.cue": `junit_tests: [{name: "unit"}]`,
	} {
		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", rel, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", rel, got, want)
		}
	}
}
