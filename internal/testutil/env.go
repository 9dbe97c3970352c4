// Package testutil provides helpers for testing cwt in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Home creates an isolated fake home directory for a test, pre-creating
// the .claude state directory. Tests never touch the real user home: the
// engine takes its home directory as an explicit input everywhere.
func Home(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".claude"), 0o755); err != nil {
		t.Fatalf("create .claude dir: %v", err)
	}

	// Keep anything that consults the environment away from the real
	// home and the real login shell.
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/bin/bash")

	return home
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile reads the whole file, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

// RegistryPath returns the registry location under a fake home.
func RegistryPath(home string) string {
	return filepath.Join(home, ".claude", "enabled.yaml")
}
