package shell

import (
	"fmt"
	"strings"
)

// Two mutation syntaxes cover every supported shell: the POSIX family
// (sh, bash, zsh, and the unknown-shell fallback) uses assignment-style
// alias and export lines, fish uses its space-separated builtins.

// AliasLine renders a persistent alias definition for the shell kind.
func AliasLine(kind Kind, name, command string) string {
	if kind == KindFish {
		return fmt.Sprintf("alias %s %q", name, command)
	}
	return fmt.Sprintf("alias %s=%q", name, command)
}

// AliasPrefix returns the fixed prefix that identifies a definition line
// for the named alias. Line-level mutations match on this prefix only,
// never on the bound command.
func AliasPrefix(kind Kind, name string) string {
	if kind == KindFish {
		return "alias " + name + " "
	}
	return "alias " + name + "="
}

// EnvLine renders a persistent environment variable assignment.
func EnvLine(kind Kind, name, value string) string {
	if kind == KindFish {
		return fmt.Sprintf("set -gx %s %q", name, value)
	}
	return fmt.Sprintf("export %s=%q", name, value)
}

// EnvPrefix returns the fixed prefix identifying an assignment line for
// the named environment variable.
func EnvPrefix(kind Kind, name string) string {
	if kind == KindFish {
		return "set -gx " + name + " "
	}
	return "export " + name + "="
}

// MatchesPrefix reports whether a config line carries the given fixed
// prefix, tolerating leading whitespace.
func MatchesPrefix(line, prefix string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), prefix)
}

// RenameAliasLine rewrites a definition line for oldName into one for
// newName, preserving the bound command text verbatim (including its
// original quoting). The second return is false when the line does not
// define oldName.
func RenameAliasLine(kind Kind, oldName, newName, line string) (string, bool) {
	oldPrefix := AliasPrefix(kind, oldName)
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, oldPrefix) {
		return line, false
	}
	indent := line[:len(line)-len(trimmed)]
	rest := trimmed[len(oldPrefix):]
	return indent + AliasPrefix(kind, newName) + rest, true
}
