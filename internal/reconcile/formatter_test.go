package reconcile

import (
	"strings"
	"testing"
)

func TestFormatReportSectionsAndLabels(t *testing.T) {
	report := &Report{
		ShellKind:    "zsh",
		ConfigPath:   "/home/u/.zshrc",
		AliasPath:    "/home/u/.aliases",
		RegistryPath: "/home/u/.claude/enabled.yaml",
		Migrations:   []MigrationRecord{{Old: "cld", New: "cc", Status: "applied"}},
		Summary: []UnitResult{
			{Kind: KindTool, ID: "claude", Outcome: OutcomeAlreadyPresent},
			{Kind: KindExtension, ID: "SuperClaude", Outcome: OutcomeInstalled},
			{Kind: KindAlias, ID: "cc", Outcome: OutcomeFailed, Reason: "disk full"},
		},
	}

	out := FormatReport(report)

	for _, want := range []string{
		"WORKSPACE STATUS",
		"zsh (/home/u/.zshrc)",
		"/home/u/.aliases",
		"already present",
		"newly installed",
		"FAILED",
		"(disk full)",
		"Migration cld → cc: applied",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReportOmitsEmptySections(t *testing.T) {
	report := &Report{
		ShellKind:    "bash",
		ConfigPath:   "/home/u/.bashrc",
		RegistryPath: "/home/u/.claude/enabled.yaml",
		Summary: []UnitResult{
			{Kind: KindTool, ID: "git", Outcome: OutcomeAlreadyPresent},
		},
	}

	out := FormatReport(report)

	if strings.Contains(out, "Aliases:") {
		t.Error("alias file line should be omitted when no alias file resolved")
	}
	if !strings.Contains(out, "git") {
		t.Error("tool section missing")
	}
}
