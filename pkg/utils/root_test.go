package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "chapters"), 0o755); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "volumes", "nested")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(deep)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if want, _ := filepath.Abs(root); got != want {
		t.Errorf("root = %s, want %s", got, want)
	}
}

func TestFindProjectRoot_ConfigMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "novelpack.yaml"), []byte("author: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FindProjectRoot(root)
	if err != nil || got != root {
		t.Errorf("FindProjectRoot = %s, %v", got, err)
	}
}

func TestFindProjectRoot_NotFound(t *testing.T) {
	_, err := FindProjectRoot(t.TempDir())
	if !errors.Is(err, ErrRootNotFound) {
		t.Errorf("err = %v, want ErrRootNotFound", err)
	}
}
