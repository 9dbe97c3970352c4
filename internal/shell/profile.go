package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
)

// conventionalAliasNames are the file names commonly used for a dedicated
// aliases file, in the order they are checked.
var conventionalAliasNames = []string{".aliases", ".bash_aliases", ".zsh_aliases"}

// Locator resolves the active shell's persistent configuration surface.
//
// Resolution is memoized: within a run every caller observes the same
// Profile, so mutations from different components always target the same
// files even if the environment changes mid-run.
type Locator struct {
	home   string
	detect func() DetectionResult
	log    logger.Logger

	resolved *Profile
}

// NewLocator creates a Locator rooted at the given home directory.
// An empty home falls back to os.UserHomeDir.
func NewLocator(home string, log logger.Logger) *Locator {
	if log == nil {
		log = logger.Noop()
	}
	return &Locator{
		home:   home,
		detect: DetectKind,
		log:    log,
	}
}

// Resolve determines the active shell and its configuration files.
// It never fails: an undetectable shell resolves to a generic POSIX
// profile (~/.profile) so mutations always have a target.
func (l *Locator) Resolve() Profile {
	if l.resolved != nil {
		return *l.resolved
	}

	home := l.home
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		} else {
			// Last resort: relative paths under the working directory.
			home = "."
		}
	}

	det := l.detect()
	if !det.Kind.Known() {
		l.log.Warn("could not detect shell, using generic POSIX profile",
			"method", det.Method)
	} else {
		l.log.Debug("detected shell", "kind", det.Kind.String(), "method", det.Method)
	}

	profile := Profile{
		Kind:       det.Kind,
		ConfigPath: ConfigPathFor(det.Kind, home),
	}

	if aliasPath := detectAliasFile(profile.ConfigPath, home); aliasPath != "" {
		l.log.Debug("found dedicated aliases file", "path", aliasPath)
		profile.AliasPath = aliasPath
	}

	l.resolved = &profile
	return profile
}

// Reset clears the memoized profile. Intended for tests.
func (l *Locator) Reset() {
	l.resolved = nil
}

// ConfigPathFor returns the primary persistent config file for a shell
// kind rooted at the given home directory. Unknown kinds map to the
// generic POSIX profile.
func ConfigPathFor(kind Kind, home string) string {
	switch kind {
	case KindBash:
		return filepath.Join(home, ".bashrc")
	case KindZsh:
		return filepath.Join(home, ".zshrc")
	case KindFish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	default:
		return filepath.Join(home, ".profile")
	}
}

// ConventionalAliasFiles returns the conventional alias file paths under
// the given home directory that currently exist.
func ConventionalAliasFiles(home string) []string {
	var paths []string
	for _, name := range conventionalAliasNames {
		path := filepath.Join(home, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			paths = append(paths, path)
		}
	}
	return paths
}

// detectAliasFile scans the primary config for a source/include directive
// referencing a conventionally-named aliases file. The referenced file
// must actually exist to become the alias mutation target.
func detectAliasFile(configPath, home string) string {
	lines, err := ReadLines(configPath)
	if err != nil {
		return ""
	}

	for _, line := range lines {
		ref := parseSourceDirective(line)
		if ref == "" {
			continue
		}
		ref = expandHome(ref, home)
		if filepath.Base(ref) == ref {
			ref = filepath.Join(home, ref)
		}
		if !isConventionalAliasName(filepath.Base(ref)) {
			continue
		}
		if info, err := os.Stat(ref); err == nil && info.Mode().IsRegular() {
			return ref
		}
	}

	return ""
}

// parseSourceDirective extracts the target of a "source FILE" or ". FILE"
// line, returning "" when the line is not a source directive.
func parseSourceDirective(line string) string {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 2 {
		return ""
	}
	if fields[0] != "source" && fields[0] != "." {
		return ""
	}
	return strings.Trim(fields[1], `"'`)
}

func isConventionalAliasName(name string) bool {
	for _, candidate := range conventionalAliasNames {
		if name == candidate {
			return true
		}
	}
	return false
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	if strings.HasPrefix(path, "$HOME/") {
		return filepath.Join(home, path[len("$HOME/"):])
	}
	return path
}
