package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDecodesYAMLPreservingOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")

	content := "z: 1\na: 2\nlist:\n  - 1\n  - 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := New()

	tree, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	m, ok := tree.(interface {
		Keys() []string
		Get(string) (any, bool)
	})
	if !ok {
		t.Fatalf("unexpected tree type: %T", tree)
	}

	keys := m.Keys()
	if len(keys) != 3 || keys[0] != "z" || keys[1] != "a" {
		t.Fatalf("unexpected key order: %+v", keys)
	}

	v, _ := m.Get("z")
	if v != int64(1) {
		t.Fatalf("unexpected value for z: %v (%T)", v, v)
	}
}

func TestLoadCachesByContentHash(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.yaml")
	pathB := filepath.Join(dir, "b.yaml")

	content := "k: v\n"
	if err := os.WriteFile(pathA, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := os.WriteFile(pathB, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := New()

	treeA, err := l.Load(pathA)
	if err != nil {
		t.Fatalf("Load a: %v", err)
	}

	treeB, err := l.Load(pathB)
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}

	if treeA != treeB {
		t.Fatalf("expected identical content to share a cache entry")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	l := New()

	if _, err := l.Load("/nonexistent/path.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
