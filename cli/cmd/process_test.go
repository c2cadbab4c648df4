package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSourceDirStdin(t *testing.T) {
	if got := sourceDir("-"); got != "" {
		t.Errorf("sourceDir(-) = %q, want empty", got)
	}
}

func TestSourceDirFile(t *testing.T) {
	if got := sourceDir("/tmp/foo/bar.yaml"); got != "/tmp/foo" {
		t.Errorf("sourceDir(...) = %q, want /tmp/foo", got)
	}
}

func TestReadSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")

	content := "host: localhost\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := readSource(context.Background(), path)
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}

	if string(data) != content {
		t.Errorf("got %q, want %q", string(data), content)
	}
}

func TestReadSourceStdinPrefersContextSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")

	content := "host: localhost\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := WithSourceFiles(context.Background(), []string{path})

	data, err := readSource(ctx, "-")
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}

	if string(data) != content {
		t.Errorf("got %q, want %q", string(data), content)
	}
}

func TestProcessRunFirstAlternative(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")

	content := "host: $sweep(a, b)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &Process{Source: path, Format: "yaml", Indent: 2, First: true}

	if err := p.Run(t.Context()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
