package shell

import (
	"testing"
)

func TestDetectKindFromShellEnv(t *testing.T) {
	tests := []struct {
		name       string
		shellEnv   string
		wantKind   Kind
		wantMethod string
	}{
		{
			name:       "Bash from SHELL",
			shellEnv:   "/bin/bash",
			wantKind:   KindBash,
			wantMethod: "$SHELL environment variable",
		},
		{
			name:       "Zsh from SHELL",
			shellEnv:   "/usr/bin/zsh",
			wantKind:   KindZsh,
			wantMethod: "$SHELL environment variable",
		},
		{
			name:       "Fish from SHELL",
			shellEnv:   "/usr/local/bin/fish",
			wantKind:   KindFish,
			wantMethod: "$SHELL environment variable",
		},
		{
			name:       "Plain sh from SHELL",
			shellEnv:   "/bin/sh",
			wantKind:   KindPosixSh,
			wantMethod: "$SHELL environment variable",
		},
		{
			name:       "Dash counts as POSIX sh",
			shellEnv:   "/usr/bin/dash",
			wantKind:   KindPosixSh,
			wantMethod: "$SHELL environment variable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SHELL", tt.shellEnv)

			result := DetectKind()
			if result.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", result.Kind, tt.wantKind)
			}
			if result.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", result.Method, tt.wantMethod)
			}
			if result.ShellPath != tt.shellEnv {
				t.Errorf("ShellPath = %q, want %q", result.ShellPath, tt.shellEnv)
			}
		})
	}
}

func TestParseKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"/bin/bash", KindBash},
		{"/usr/bin/zsh", KindZsh},
		{"/usr/local/bin/fish", KindFish},
		{"/bin/sh", KindPosixSh},
		{"/usr/bin/ash", KindPosixSh},
		{"/bin/ksh", KindUnknown},
		{"/usr/bin/pwsh", KindUnknown},
		{"BASH", KindBash}, // case-insensitive
	}

	for _, tt := range tests {
		if got := parseKindFromPath(tt.path); got != tt.want {
			t.Errorf("parseKindFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestKindKnown(t *testing.T) {
	for _, kind := range []Kind{KindPosixSh, KindBash, KindZsh, KindFish} {
		if !kind.Known() {
			t.Errorf("%v should be known", kind)
		}
	}
	if KindUnknown.Known() {
		t.Error("KindUnknown should not be known")
	}
}
