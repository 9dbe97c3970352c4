// Package alias converges the installed alias set onto the desired one:
// installing missing definitions, migrating renamed aliases while
// preserving their bound commands, and removing deprecated leftovers.
//
// All mutations are file-scoped: eligibility is decided by what the
// resolved alias file actually contains, never by the live session. An
// alias that is active in the running shell but not persisted is
// deliberately not a migration target.
package alias

import (
	"fmt"
	"strings"

	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
	"github.com/0x1NotMe/claude-workspace-tools/internal/manifest"
	"github.com/0x1NotMe/claude-workspace-tools/internal/probe"
	"github.com/0x1NotMe/claude-workspace-tools/internal/prompt"
	"github.com/0x1NotMe/claude-workspace-tools/internal/shell"
)

// MigrationStatus classifies the outcome of one migration mapping.
type MigrationStatus int

const (
	// MigrationApplied means the alias was renamed in the file
	MigrationApplied MigrationStatus = iota
	// MigrationSkippedAbsent means the old alias is not in the file
	MigrationSkippedAbsent
	// MigrationDeclined means the user answered no; old and new may
	// coexist for this run, which is an allowed transitional state
	MigrationDeclined
	// MigrationFailed means the file edit itself failed
	MigrationFailed
)

// String returns a human-readable status name.
func (s MigrationStatus) String() string {
	switch s {
	case MigrationApplied:
		return "applied"
	case MigrationSkippedAbsent:
		return "skipped (not present)"
	case MigrationDeclined:
		return "declined"
	case MigrationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MigrationResult records the outcome of one mapping.
type MigrationResult struct {
	Migration manifest.Migration
	Status    MigrationStatus
	Err       error
}

// Reconciler applies alias mutations to the resolved alias file.
type Reconciler struct {
	profile shell.Profile
	confirm prompt.Confirmer
	log     logger.Logger
}

// NewReconciler creates a Reconciler for the given shell profile.
func NewReconciler(profile shell.Profile, confirm prompt.Confirmer, log logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Noop()
	}
	return &Reconciler{profile: profile, confirm: confirm, log: log}
}

// target returns the file alias mutations apply to.
func (r *Reconciler) target() string {
	return r.profile.AliasTarget()
}

// Migrate renames deprecated aliases to their replacements, preserving
// each bound command string verbatim. A mapping whose old name is absent
// from the file is skipped silently. Each present mapping is confirmed
// individually; declining leaves the file untouched for that mapping.
func (r *Reconciler) Migrate(migrations []manifest.Migration) []MigrationResult {
	target := r.target()
	results := make([]MigrationResult, 0, len(migrations))

	for _, m := range migrations {
		if !probe.AliasInFile(r.profile.Kind, target, m.Old) {
			results = append(results, MigrationResult{Migration: m, Status: MigrationSkippedAbsent})
			continue
		}

		question := fmt.Sprintf("Alias %q has been renamed to %q. Migrate it in %s?", m.Old, m.New, target)
		if !r.confirm.Confirm(question) {
			r.log.Info("migration declined, keeping old alias", "old", m.Old, "new", m.New)
			results = append(results, MigrationResult{Migration: m, Status: MigrationDeclined})
			continue
		}

		oldPrefix := shell.AliasPrefix(r.profile.Kind, m.Old)
		oldName, newName := m.Old, m.New
		changed, err := shell.RewriteLinesMatching(target,
			func(line string) bool { return shell.MatchesPrefix(line, oldPrefix) },
			func(line string) string {
				renamed, _ := shell.RenameAliasLine(r.profile.Kind, oldName, newName, line)
				return renamed
			})
		if err != nil {
			results = append(results, MigrationResult{Migration: m, Status: MigrationFailed, Err: err})
			continue
		}

		r.log.Info("migrated alias", "old", m.Old, "new", m.New, "lines", changed)
		results = append(results, MigrationResult{Migration: m, Status: MigrationApplied})
	}

	return results
}

// Applied filters migration results down to the applied mappings.
func Applied(results []MigrationResult) []manifest.Migration {
	var applied []manifest.Migration
	for _, res := range results {
		if res.Status == MigrationApplied {
			applied = append(applied, res.Migration)
		}
	}
	return applied
}

// Install writes definition lines for the given aliases. Aliases already
// defined in the file are skipped, unless refresh is set, in which case
// their definition lines are rewritten to the desired command. One
// confirmation covers the whole batch. The returned list contains the
// aliases actually written.
func (r *Reconciler) Install(aliases []manifest.Alias, refresh bool) ([]manifest.Alias, error) {
	target := r.target()

	var pending []manifest.Alias
	for _, a := range aliases {
		if !refresh && probe.AliasInFile(r.profile.Kind, target, a.Name) {
			continue
		}
		pending = append(pending, a)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	names := make([]string, len(pending))
	for i, a := range pending {
		names[i] = a.Name
	}
	question := fmt.Sprintf("Add %d alias(es) to %s (%s)?", len(pending), target, strings.Join(names, ", "))
	if !r.confirm.Confirm(question) {
		r.log.Info("alias installation declined", "count", len(pending))
		return nil, nil
	}

	lines, err := shell.ReadLines(target)
	if err != nil {
		return nil, err
	}
	for _, a := range pending {
		desired := shell.AliasLine(r.profile.Kind, a.Name, a.Command)
		prefix := shell.AliasPrefix(r.profile.Kind, a.Name)
		replaced := false
		for i, line := range lines {
			if shell.MatchesPrefix(line, prefix) {
				lines[i] = desired
				replaced = true
				break
			}
		}
		if !replaced {
			lines = append(lines, desired)
		}
	}
	if err := shell.WriteLines(target, lines); err != nil {
		return nil, err
	}

	r.log.Info("installed aliases", "count", len(pending), "file", target)
	return pending, nil
}

// RemoveDeprecated deletes definition lines for the given deprecated
// alias names. Only names actually present in the file are considered,
// and one confirmation covers the whole batch. A missing alias file is
// reported and skipped; this path never creates files.
//
// Callers must run Migrate first: a migrated alias has already changed
// its name and can no longer match the deprecated pattern here.
func (r *Reconciler) RemoveDeprecated(ids []string) ([]string, error) {
	target := r.target()

	exists, err := shell.Exists(target)
	if err != nil {
		return nil, err
	}
	if !exists {
		r.log.Info("alias file does not exist, nothing to remove", "file", target)
		return nil, nil
	}

	var present []string
	for _, id := range ids {
		if probe.AliasInFile(r.profile.Kind, target, id) {
			present = append(present, id)
		}
	}
	if len(present) == 0 {
		return nil, nil
	}

	question := fmt.Sprintf("Remove %d deprecated alias(es) from %s (%s)?",
		len(present), target, strings.Join(present, ", "))
	if !r.confirm.Confirm(question) {
		r.log.Info("deprecated alias removal declined", "count", len(present))
		return nil, nil
	}

	var removed []string
	for _, id := range present {
		prefix := shell.AliasPrefix(r.profile.Kind, id)
		deleted, err := shell.DeleteLinesMatching(target, func(line string) bool {
			return shell.MatchesPrefix(line, prefix)
		})
		if err != nil {
			return removed, err
		}
		if deleted > 0 {
			removed = append(removed, id)
		}
	}

	r.log.Info("removed deprecated aliases", "count", len(removed), "file", target)
	return removed, nil
}
