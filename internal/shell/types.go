package shell

import "fmt"

// Kind represents a recognized shell family.
type Kind string

const (
	// KindPosixSh represents a plain POSIX /bin/sh login shell
	KindPosixSh Kind = "posix-sh"
	// KindBash represents the Bash shell
	KindBash Kind = "bash"
	// KindZsh represents the Z shell
	KindZsh Kind = "zsh"
	// KindFish represents the Fish shell
	KindFish Kind = "fish"
	// KindUnknown represents an undetectable shell
	KindUnknown Kind = "unknown"
)

// String returns the string representation of the shell kind.
func (k Kind) String() string {
	return string(k)
}

// Known returns true if the kind was positively identified.
func (k Kind) Known() bool {
	switch k {
	case KindPosixSh, KindBash, KindZsh, KindFish:
		return true
	default:
		return false
	}
}

// Profile is the resolved persistent configuration surface for the active
// shell. ConfigPath is always set, even for an unknown shell (generic
// POSIX profile). AliasPath is non-empty only when the primary config
// sources a separate, existing aliases file; alias mutations then target
// that file while environment variable mutations stay on ConfigPath.
type Profile struct {
	// Kind is the detected shell family
	Kind Kind
	// ConfigPath is the primary persistent configuration file
	ConfigPath string
	// AliasPath is the optional dedicated aliases file
	AliasPath string
}

// AliasTarget returns the file alias mutations should be applied to.
func (p Profile) AliasTarget() string {
	if p.AliasPath != "" {
		return p.AliasPath
	}
	return p.ConfigPath
}

// DetectionResult describes how the shell kind was determined.
type DetectionResult struct {
	// Kind is the detected shell family
	Kind Kind
	// Method describes how the shell was detected
	Method string
	// ShellPath is the filesystem path to the shell binary, when known
	ShellPath string
}

// FileError represents an error during shell config file operations.
type FileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *FileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("config file error (%s): %s", e.Path, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}
