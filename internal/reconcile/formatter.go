package reconcile

import (
	"fmt"
	"strings"
)

// outcomeLabel maps run outcomes to the labels shown in the summary.
func outcomeLabel(outcome Outcome) string {
	switch outcome {
	case OutcomeAlreadyPresent:
		return "already present"
	case OutcomeInstalled:
		return "newly installed"
	case OutcomeSkipped:
		return "skipped by user"
	case OutcomeFailed:
		return "FAILED"
	case OutcomeMissing:
		return "missing"
	default:
		return string(outcome)
	}
}

// FormatReport formats a run report for user display.
func FormatReport(report *Report) string {
	var sb strings.Builder
	sb.Grow(1024 + len(report.Summary)*64)

	sb.WriteString("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString("WORKSPACE STATUS\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	sb.WriteString(fmt.Sprintf("Shell:    %s (%s)\n", report.ShellKind, report.ConfigPath))
	if report.AliasPath != "" {
		sb.WriteString(fmt.Sprintf("Aliases:  %s\n", report.AliasPath))
	}
	sb.WriteString(fmt.Sprintf("Registry: %s\n\n", report.RegistryPath))

	for _, kind := range []UnitKind{KindTool, KindExtension, KindEnvVar, KindAlias} {
		section := filterSummary(report.Summary, kind)
		if len(section) == 0 {
			continue
		}
		sb.WriteString(sectionTitle(kind) + "\n")
		for _, unit := range section {
			line := fmt.Sprintf("  %-20s %s", unit.ID, outcomeLabel(unit.Outcome))
			if unit.Reason != "" {
				line += " (" + unit.Reason + ")"
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	for _, m := range report.Migrations {
		sb.WriteString(fmt.Sprintf("Migration %s → %s: %s\n", m.Old, m.New, m.Status))
	}
	if len(report.RemovedAliases) > 0 {
		sb.WriteString(fmt.Sprintf("Removed deprecated aliases: %s\n", strings.Join(report.RemovedAliases, ", ")))
	}
	for _, note := range report.Notes {
		sb.WriteString("Note: " + note + "\n")
	}

	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	return sb.String()
}

func filterSummary(summary []UnitResult, kind UnitKind) []UnitResult {
	var filtered []UnitResult
	for _, unit := range summary {
		if unit.Kind == kind {
			filtered = append(filtered, unit)
		}
	}
	return filtered
}

func sectionTitle(kind UnitKind) string {
	switch kind {
	case KindTool:
		return "TOOLS"
	case KindExtension:
		return "EXTENSIONS"
	case KindEnvVar:
		return "ENVIRONMENT"
	case KindAlias:
		return "ALIASES"
	default:
		return strings.ToUpper(string(kind))
	}
}
