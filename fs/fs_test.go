package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnippetFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.js", "b.txt", filepath.Join("sub", "c.js")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("return 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(dir, "b.txt")

	got, err := SnippetFiles(NewOSFS(), []string{dir, single}, ".js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "sub", "c.js"),
		single,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SnippetFiles() mismatch (-want +got):\n%s", diff)
	}

	if _, err := SnippetFiles(NewOSFS(), []string{filepath.Join(dir, "missing")}, ".js"); err == nil {
		t.Error("expected an error for a missing path")
	}
}
