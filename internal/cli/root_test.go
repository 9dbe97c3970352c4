package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x1NotMe/claude-workspace-tools/internal/extension"
	"github.com/0x1NotMe/claude-workspace-tools/internal/testutil"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cwt "+Version) {
		t.Errorf("output = %q, want version line", out)
	}
}

func TestRegistryListEmpty(t *testing.T) {
	testutil.Home(t)

	out, err := runCommand(t, "registry", "list")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("empty registry listed %q", out)
	}
}

func TestRegistryRebuildSalvagesCorruption(t *testing.T) {
	home := testutil.Home(t)
	testutil.WriteFile(t, testutil.RegistryPath(home),
		"enabled:\n\t{garbage\n  - SuperClaude\n")

	out, err := runCommand(t, "registry", "rebuild")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "salvaged") {
		t.Errorf("output = %q, want salvage notice", out)
	}
	if !strings.Contains(out, "SuperClaude") {
		t.Errorf("output = %q, want salvaged entry", out)
	}

	if got := testutil.ReadFile(t, testutil.RegistryPath(home)); got != "enabled:\n  - SuperClaude\n" {
		t.Errorf("registry = %q, want canonical form", got)
	}
}

func TestStatusRunsReadOnly(t *testing.T) {
	home := testutil.Home(t)

	out, err := runCommand(t, "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "WORKSPACE STATUS") {
		t.Errorf("output = %q, want status header", out)
	}

	if _, statErr := os.Stat(testutil.RegistryPath(home)); !os.IsNotExist(statErr) {
		t.Error("status must not create the registry")
	}
}

func TestInstallForcedConvergesFakeHome(t *testing.T) {
	home := testutil.Home(t)

	// Empty PATH keeps the run away from real tools and real npm; every
	// tool probe answers absent and the npm collaborator reports
	// unavailable instead of shelling out.
	t.Setenv("PATH", t.TempDir())

	restore := builtinExtensions
	builtinExtensions = func() []extension.Extension {
		return []extension.Extension{{
			ID:          "custom-commands",
			DisplayName: "Custom commands",
			Markers: func(home string) []string {
				return []string{filepath.Join(home, ".claude", "commands", "custom-commands", "review.md")}
			},
			Install: func(home string) error {
				dir := filepath.Join(home, ".claude", "commands", "custom-commands")
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
				return os.WriteFile(filepath.Join(dir, "review.md"), []byte("review\n"), 0o644)
			},
		}}
	}
	defer func() { builtinExtensions = restore }()

	out, err := runCommand(t, "install", "--force")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "WORKSPACE STATUS") {
		t.Errorf("output = %q, want summary", out)
	}

	if got := testutil.ReadFile(t, testutil.RegistryPath(home)); got != "enabled:\n  - custom-commands\n" {
		t.Errorf("registry = %q, want custom-commands enabled", got)
	}
	config := testutil.ReadFile(t, filepath.Join(home, ".bashrc"))
	if !strings.Contains(config, `alias cc="claude"`) {
		t.Errorf("config missing alias:\n%s", config)
	}
	if _, statErr := os.Stat(filepath.Join(home, ".claude", "run.lock")); !os.IsNotExist(statErr) {
		t.Error("run lock not released")
	}
}

func TestUnknownCommandFails(t *testing.T) {
	if _, err := runCommand(t, "no-such-command"); err == nil {
		t.Error("unknown command should error")
	}
}
