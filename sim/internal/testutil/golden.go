// Package testutil provides shared test infrastructure for the scheduler
// simulator: golden-file comparison for the byte-exact trace contract.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden files with the current output")

// Golden compares got against testdata/<name> in the calling package's
// directory. Running the tests with -update rewrites the file instead, for
// reviewing intentional trace changes as diffs.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()
	path := filepath.Join("testdata", name)

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("update golden file %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file %s (run with -update to create it): %v", path, err)
	}
	if string(got) != string(want) {
		t.Errorf("output differs from %s:\n--- want ---\n%s--- got ---\n%s", path, want, got)
	}
}
