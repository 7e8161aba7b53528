package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"hostel-analytics/utils"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Flamingo.xlsx"), "x1")
	writeFile(t, filepath.Join(root, "a", "b", "Puerto.xls"), "x2")
	writeFile(t, filepath.Join(root, "a", "notes.txt"), "ignored")

	c := NewCollector(utils.NewDiscardLogger())
	blobs, err := c.Collect([]string{root, filepath.Join(root, "a", "b")})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(blobs) != 2 {
		t.Fatalf("got %d blobs, want 2: %+v", len(blobs), blobs)
	}
	if blobs[0].Name != "Flamingo.xlsx" || string(blobs[0].Data) != "x1" {
		t.Errorf("first blob: %s %q", blobs[0].Name, blobs[0].Data)
	}
	if blobs[1].Name != "Puerto.xls" {
		t.Errorf("second blob: %s", blobs[1].Name)
	}
}

func TestCollectSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Duque.xlsx")
	writeFile(t, path, "x")

	blobs, err := NewCollector(utils.NewDiscardLogger()).Collect([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(blobs) != 1 || blobs[0].Name != "Duque.xlsx" {
		t.Errorf("blobs = %+v", blobs)
	}
}

func TestCollectMissingPath(t *testing.T) {
	_, err := NewCollector(utils.NewDiscardLogger()).Collect([]string{filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Error("expected error for missing path")
	}
}
