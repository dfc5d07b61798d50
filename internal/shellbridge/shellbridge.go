// Package shellbridge hands the new app's directory back to the shell.
//
// A child process cannot change its parent shell's working directory, so
// the wrapper printed by `activate` passes a scratch file down through the
// environment. After a successful run the binary writes the app root there
// and the wrapper cds into it.
package shellbridge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

const (
	envWrapper         = "CTRA_WRAPPER_ACTIVE"
	envInstructionFile = "CTRA_INSTRUCTION_FILE"
)

// ErrWrapperMissing means the binary was run directly, so the shell will
// stay in the parent directory.
var ErrWrapperMissing = errors.New("shell wrapper missing; add `eval \"$(create-terra-react-app activate)\"` to your shell rc to land in new apps automatically")

// Active reports whether the wrapper is waiting for an app directory.
func Active() bool {
	return os.Getenv(envWrapper) == "1" && InstructionFile() != ""
}

// InstructionFile returns the scratch file the wrapper reads after exit.
func InstructionFile() string {
	return os.Getenv(envInstructionFile)
}

// EnterApp records root as the directory the shell should move into. root
// must be an existing directory; relative paths are resolved first because
// the wrapper reads the file from the directory the user started in.
func EnterApp(root string) error {
	if !Active() {
		return ErrWrapperMissing
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("app directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("app directory: %s is not a directory", abs)
	}
	file := InstructionFile()
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("instruction file: %w", err)
	}
	return renameio.WriteFile(file, []byte(abs), 0o644)
}
