package shellbridge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func activate(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "nested", "cd")
	t.Setenv(envWrapper, "1")
	t.Setenv(envInstructionFile, file)
	return file
}

func TestEnterAppWritesAppRoot(t *testing.T) {
	file := activate(t)
	root := filepath.Join(t.TempDir(), "my-app")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := EnterApp(root); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != root {
		t.Fatalf("instruction = %q, want %q", data, root)
	}
}

func TestEnterAppResolvesRelativeRoot(t *testing.T) {
	file := activate(t)
	parent := t.TempDir()
	if err := os.Mkdir(filepath.Join(parent, "my-app"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(parent)

	if err := EnterApp("my-app"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(string(data)) || filepath.Base(string(data)) != "my-app" {
		t.Fatalf("instruction = %q", data)
	}
}

func TestEnterAppRejectsMissingApp(t *testing.T) {
	file := activate(t)
	if err := EnterApp(filepath.Join(t.TempDir(), "never-created")); err == nil {
		t.Fatal("expected error for a missing app directory")
	}
	if _, err := os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("instruction file written for a missing app: %v", err)
	}
}

func TestEnterAppWithoutWrapper(t *testing.T) {
	t.Setenv(envWrapper, "")
	t.Setenv(envInstructionFile, "")
	if err := EnterApp(t.TempDir()); !errors.Is(err, ErrWrapperMissing) {
		t.Fatalf("expected ErrWrapperMissing, got %v", err)
	}
}
