package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// DetectKind detects the active shell using multiple methods.
//
// Detection never fails hard: when every method comes up empty the result
// carries KindUnknown, and profile resolution falls back to a generic
// POSIX profile so config mutation always has a valid target.
func DetectKind() DetectionResult {
	// Method 1: login shell from $SHELL (most reliable)
	if shellPath := os.Getenv("SHELL"); shellPath != "" {
		if kind := parseKindFromPath(shellPath); kind.Known() {
			return DetectionResult{
				Kind:      kind,
				Method:    "$SHELL environment variable",
				ShellPath: shellPath,
			}
		}
	}

	// Method 2: executable name of the parent process (fallback for
	// environments where $SHELL is unset or stale)
	if kind, shellPath := detectFromParentProcess(); kind.Known() {
		return DetectionResult{
			Kind:      kind,
			Method:    "parent process",
			ShellPath: shellPath,
		}
	}

	return DetectionResult{
		Kind:   KindUnknown,
		Method: "detection failed",
	}
}

// parseKindFromPath extracts the shell kind from a shell binary path.
// Examples:
//   - /bin/bash -> bash
//   - /usr/bin/zsh -> zsh
//   - /usr/local/bin/fish -> fish
func parseKindFromPath(shellPath string) Kind {
	baseName := strings.ToLower(filepath.Base(shellPath))

	switch baseName {
	case "sh", "dash", "ash":
		return KindPosixSh
	case "bash":
		return KindBash
	case "zsh":
		return KindZsh
	case "fish":
		return KindFish
	default:
		return KindUnknown
	}
}

// detectFromParentProcess attempts to identify the shell from the parent
// process executable. Errors are swallowed: an unreadable process table
// simply means "could not detect".
func detectFromParentProcess() (Kind, string) {
	parent, err := process.NewProcess(int32(os.Getppid()))
	if err != nil {
		return KindUnknown, ""
	}

	name, err := parent.Name()
	if err != nil || name == "" {
		return KindUnknown, ""
	}

	// Login shells show up as "-bash", "-zsh", etc.
	name = strings.TrimPrefix(name, "-")

	kind := parseKindFromPath(name)
	if !kind.Known() {
		return KindUnknown, ""
	}

	shellPath, err := parent.Exe()
	if err != nil {
		shellPath = ""
	}

	return kind, shellPath
}
