package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x1NotMe/claude-workspace-tools/internal/extension"
	"github.com/0x1NotMe/claude-workspace-tools/internal/manifest"
	"github.com/0x1NotMe/claude-workspace-tools/internal/testutil"
)

// fakePackages is an in-memory package manager. Install marks the
// package as installed so later probes see it.
type fakePackages struct {
	installed map[string]bool
}

func (f *fakePackages) Installed(_ context.Context, pkg string) bool {
	return f.installed[pkg]
}

func (f *fakePackages) Install(_ context.Context, pkg string) error {
	if f.installed == nil {
		f.installed = map[string]bool{}
	}
	f.installed[pkg] = true
	return nil
}

// declineAll declines every prompt and counts how often it was asked.
type declineAll struct {
	asked int
}

func (d *declineAll) Confirm(string) bool {
	d.asked++
	return false
}

func markerExtension(id string) extension.Extension {
	return extension.Extension{
		ID:          id,
		DisplayName: id,
		Markers: func(home string) []string {
			return []string{filepath.Join(extension.CommandsDir(home, id), "cmd.md")}
		},
		Install: func(home string) error {
			dir := extension.CommandsDir(home, id)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(dir, "cmd.md"), []byte("cmd\n"), 0o644)
		},
	}
}

func testManifest() manifest.Manifest {
	return manifest.Manifest{
		Tools: []manifest.ToolSpec{
			{Name: "sh"}, // always on PATH, check-only
			{Name: "claude", Package: "@anthropic-ai/claude-code"},
		},
		EnvVars: []manifest.EnvVar{
			{Name: "CLAUDE_WORKSPACE", Value: "$HOME/workspace"},
		},
		Aliases: []manifest.Alias{
			{Name: "cc", Command: "claude"},
			{Name: "ccc", Command: "claude --continue"},
		},
		Migrations:        []manifest.Migration{{Old: "cld", New: "cc"}},
		DeprecatedAliases: []string{"cld", "cldv"},
	}
}

func testConfig(home string) Config {
	return Config{
		Manifest:     testManifest(),
		Extensions:   []extension.Extension{markerExtension("custom-commands"), markerExtension("SuperClaude")},
		Home:         home,
		Packages:     &fakePackages{},
		RegistryPath: testutil.RegistryPath(home),
	}
}

func outcomeOf(summary []UnitResult, kind UnitKind, id string) Outcome {
	for _, u := range summary {
		if u.Kind == kind && u.ID == id {
			return u.Outcome
		}
	}
	return ""
}

func TestRunForcedConvergesFreshEnvironment(t *testing.T) {
	home := testutil.Home(t)
	cfg := testConfig(home)
	cfg.Force = true

	report := New(cfg).Run(context.Background())

	// Forced mode must reach a terminal state with zero interaction:
	// every unit installed, every extension enabled.
	for _, want := range []struct {
		kind UnitKind
		id   string
	}{
		{KindTool, "claude"},
		{KindExtension, "custom-commands"},
		{KindExtension, "SuperClaude"},
		{KindEnvVar, "CLAUDE_WORKSPACE"},
		{KindAlias, "cc"},
		{KindAlias, "ccc"},
	} {
		if got := outcomeOf(report.Summary, want.kind, want.id); got != OutcomeInstalled {
			t.Errorf("%s %s = %v, want %v", want.kind, want.id, got, OutcomeInstalled)
		}
	}
	if got := outcomeOf(report.Summary, KindTool, "sh"); got != OutcomeAlreadyPresent {
		t.Errorf("sh = %v, want %v", got, OutcomeAlreadyPresent)
	}

	registry, err := os.ReadFile(testutil.RegistryPath(home))
	if err != nil {
		t.Fatalf("registry not written: %v", err)
	}
	want := "enabled:\n  - SuperClaude\n  - custom-commands\n"
	if string(registry) != want {
		t.Errorf("registry = %q, want %q", registry, want)
	}

	config := testutil.ReadFile(t, filepath.Join(home, ".bashrc"))
	if !strings.Contains(config, `export CLAUDE_WORKSPACE="$HOME/workspace"`) {
		t.Error("env var not written to primary config")
	}
	if !strings.Contains(config, `alias cc="claude"`) {
		t.Error("alias not written to primary config")
	}
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	home := testutil.Home(t)

	first := testConfig(home)
	first.Force = true
	orch := New(first)
	orch.Run(context.Background())

	before := testutil.ReadFile(t, filepath.Join(home, ".bashrc"))

	// A converged environment needs no decisions: the run must finish
	// without a single prompt even with every answer set to "no".
	second := testConfig(home)
	second.Packages = orch.pkgs // keep the simulated installs
	confirm := &declineAll{}
	second.Confirm = confirm
	report := New(second).Run(context.Background())

	if confirm.asked != 0 {
		t.Errorf("converged run asked %d questions, want 0", confirm.asked)
	}
	for _, u := range report.Summary {
		if u.Outcome != OutcomeAlreadyPresent {
			t.Errorf("%s %s = %v, want %v", u.Kind, u.ID, u.Outcome, OutcomeAlreadyPresent)
		}
	}

	after := testutil.ReadFile(t, filepath.Join(home, ".bashrc"))
	if after != before {
		t.Errorf("config changed on converged run:\nbefore: %q\nafter:  %q", before, after)
	}
}

func TestRunDeclinedLeavesEnvironmentUntouched(t *testing.T) {
	home := testutil.Home(t)
	cfg := testConfig(home)
	cfg.Confirm = &declineAll{}

	report := New(cfg).Run(context.Background())

	if _, err := os.Stat(filepath.Join(home, ".bashrc")); !os.IsNotExist(err) {
		t.Error("declining everything must not create the config file")
	}
	for _, id := range []string{"custom-commands", "SuperClaude"} {
		if got := outcomeOf(report.Summary, KindExtension, id); got != OutcomeSkipped {
			t.Errorf("extension %s = %v, want %v", id, got, OutcomeSkipped)
		}
	}
	if got := outcomeOf(report.Summary, KindEnvVar, "CLAUDE_WORKSPACE"); got != OutcomeSkipped {
		t.Errorf("env var = %v, want %v", got, OutcomeSkipped)
	}

	// Registry rebuild still runs: an empty registry is written in
	// canonical form even when the user declined every action.
	registry, err := os.ReadFile(testutil.RegistryPath(home))
	if err != nil {
		t.Fatalf("registry rebuild skipped: %v", err)
	}
	if string(registry) != "enabled: []\n" {
		t.Errorf("registry = %q, want empty canonical form", registry)
	}
}

func TestRunMigratesBeforeRemovingDeprecated(t *testing.T) {
	home := testutil.Home(t)
	testutil.WriteFile(t, filepath.Join(home, ".bashrc"),
		"alias cld=\"claude\"\nalias cldv=\"claude --verbose\"\n")

	cfg := testConfig(home)
	cfg.Force = true
	report := New(cfg).Run(context.Background())

	if len(report.Migrations) != 1 || report.Migrations[0].Old != "cld" || report.Migrations[0].Status != "applied" {
		t.Fatalf("migrations = %+v, want cld applied", report.Migrations)
	}

	// cld was renamed, so only cldv is left for the deprecation sweep.
	if len(report.RemovedAliases) != 1 || report.RemovedAliases[0] != "cldv" {
		t.Errorf("removed = %v, want [cldv]", report.RemovedAliases)
	}

	config := testutil.ReadFile(t, filepath.Join(home, ".bashrc"))
	if strings.Contains(config, "alias cld=") || strings.Contains(config, "alias cldv=") {
		t.Errorf("deprecated aliases survived:\n%s", config)
	}
	if strings.Count(config, "alias cc=") != 1 {
		t.Errorf("want exactly one cc definition:\n%s", config)
	}
}

func TestRunSalvagesCorruptRegistry(t *testing.T) {
	home := testutil.Home(t)
	testutil.WriteFile(t, testutil.RegistryPath(home),
		"enabled:\n  - SuperClaude\n\t{broken yaml\n  - custom-commands\n")

	cfg := testConfig(home)
	cfg.Force = true
	report := New(cfg).Run(context.Background())

	if !report.RegistrySalvage {
		t.Error("report should flag the registry salvage")
	}
	registry, err := os.ReadFile(testutil.RegistryPath(home))
	if err != nil {
		t.Fatal(err)
	}
	want := "enabled:\n  - SuperClaude\n  - custom-commands\n"
	if string(registry) != want {
		t.Errorf("registry = %q, want canonical rebuild %q", registry, want)
	}
}

func TestRunDisabledExtensionIsSkippedEntirely(t *testing.T) {
	home := testutil.Home(t)
	cfg := testConfig(home)
	cfg.Force = true
	cfg.Manifest.DisabledExtensions = []string{"SuperClaude"}

	report := New(cfg).Run(context.Background())

	if got := outcomeOf(report.Summary, KindExtension, "SuperClaude"); got != "" {
		t.Errorf("disabled extension appeared in summary as %v", got)
	}
	if got := outcomeOf(report.Summary, KindExtension, "custom-commands"); got != OutcomeInstalled {
		t.Errorf("custom-commands = %v, want %v", got, OutcomeInstalled)
	}

	registry, err := os.ReadFile(testutil.RegistryPath(home))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(registry), "SuperClaude") {
		t.Error("disabled extension must not be enabled in the registry")
	}
}

func TestRunCheckOnlyToolReportedMissing(t *testing.T) {
	home := testutil.Home(t)
	cfg := testConfig(home)
	cfg.Force = true
	cfg.Manifest.Tools = []manifest.ToolSpec{{Name: "no-such-tool-zzz"}}

	report := New(cfg).Run(context.Background())

	found := false
	for _, u := range report.Summary {
		if u.Kind == KindTool && u.ID == "no-such-tool-zzz" {
			found = true
			if u.Outcome != OutcomeMissing {
				t.Errorf("outcome = %v, want %v", u.Outcome, OutcomeMissing)
			}
			if u.Reason == "" {
				t.Error("missing tool should carry a reason")
			}
		}
	}
	if !found {
		t.Fatal("tool missing from summary")
	}
}

func TestStatusIsReadOnly(t *testing.T) {
	home := testutil.Home(t)
	cfg := testConfig(home)
	cfg.Confirm = &declineAll{}

	report := New(cfg).Status(context.Background())

	if _, err := os.Stat(filepath.Join(home, ".bashrc")); !os.IsNotExist(err) {
		t.Error("status must not create the config file")
	}
	if _, err := os.Stat(testutil.RegistryPath(home)); !os.IsNotExist(err) {
		t.Error("status must not write the registry")
	}
	if confirm := cfg.Confirm.(*declineAll); confirm.asked != 0 {
		t.Errorf("status asked %d questions, want 0", confirm.asked)
	}

	if got := outcomeOf(report.Summary, KindAlias, "cc"); got != OutcomeMissing {
		t.Errorf("absent alias = %v, want %v", got, OutcomeMissing)
	}
	if got := outcomeOf(report.Summary, KindTool, "sh"); got != OutcomeAlreadyPresent {
		t.Errorf("sh = %v, want %v", got, OutcomeAlreadyPresent)
	}
}

func TestReportSavedToPath(t *testing.T) {
	home := testutil.Home(t)
	cfg := testConfig(home)
	cfg.Force = true
	cfg.ReportPath = filepath.Join(home, ".claude", "state", "last-run.json")

	report := New(cfg).Run(context.Background())

	data, err := os.ReadFile(cfg.ReportPath)
	if err != nil {
		t.Fatalf("report not persisted: %v", err)
	}
	if !strings.Contains(string(data), report.ID) {
		t.Error("persisted report missing the run id")
	}
	if report.ID == "" {
		t.Error("report id empty")
	}
}
