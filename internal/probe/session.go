package probe

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/0x1NotMe/claude-workspace-tools/internal/shell"
)

// SessionAliasLookup answers whether an alias is active in the current
// interactive shell session. This is the strongest presence signal: it
// catches aliases defined through any mechanism, persisted or not. The
// engine only ever reads from it.
type SessionAliasLookup interface {
	Active(name string) bool
}

// sessionQueryTimeout bounds the one-off interactive shell spawn.
const sessionQueryTimeout = 5 * time.Second

// ShellSession queries the user's shell for its active aliases by
// spawning it once in interactive mode and parsing `alias` output. The
// result is cached for the lifetime of the run.
type ShellSession struct {
	kind      shell.Kind
	shellPath string

	once    sync.Once
	aliases map[string]bool
}

// NewShellSession creates a lookup backed by the given shell binary.
// An empty shellPath disables the session signal entirely.
func NewShellSession(kind shell.Kind, shellPath string) *ShellSession {
	return &ShellSession{kind: kind, shellPath: shellPath}
}

// Active reports whether the alias is defined in the live session.
// Any failure to query the shell reads as "not active".
func (s *ShellSession) Active(name string) bool {
	s.once.Do(s.query)
	return s.aliases[name]
}

func (s *ShellSession) query() {
	s.aliases = map[string]bool{}
	if s.shellPath == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sessionQueryTimeout)
	defer cancel()

	// Interactive mode makes the shell read its rc files, reproducing
	// the alias set of a real session. Fish defines aliases as functions
	// but still lists them through its alias builtin.
	var cmd *exec.Cmd
	if s.kind == shell.KindFish {
		cmd = exec.CommandContext(ctx, s.shellPath, "-c", "alias")
	} else {
		cmd = exec.CommandContext(ctx, s.shellPath, "-i", "-c", "alias")
	}

	output, err := cmd.Output()
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(output), "\n") {
		if name := parseAliasName(line); name != "" {
			s.aliases[name] = true
		}
	}
}

// parseAliasName extracts the alias name from one line of `alias` output.
// Formats seen in the wild:
//
//	cc='claude'            (bash, zsh)
//	alias cc='claude'      (bash in some modes)
//	alias cc claude        (fish)
func parseAliasName(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	line = strings.TrimPrefix(line, "alias ")

	if i := strings.IndexByte(line, '='); i > 0 {
		return strings.TrimSpace(line[:i])
	}
	if fields := strings.Fields(line); len(fields) >= 2 {
		return fields[0]
	}
	return ""
}

// FixedSession is a SessionAliasLookup over a fixed alias set, for tests
// and for runs where spawning a shell is undesirable.
type FixedSession map[string]bool

// Active reports membership in the fixed set.
func (f FixedSession) Active(name string) bool {
	return f[name]
}
