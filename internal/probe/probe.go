// Package probe answers "is this unit currently present, and where" for
// every kind of managed unit. Probes are strictly read-only and never
// fail: an inaccessible path or an unanswerable question reads as
// "absent", which errs toward re-installation rather than silent skips.
package probe

import (
	"context"
	"os"
	"os/exec"

	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
	"github.com/0x1NotMe/claude-workspace-tools/internal/manifest"
	"github.com/0x1NotMe/claude-workspace-tools/internal/npm"
	"github.com/0x1NotMe/claude-workspace-tools/internal/shell"
)

// Probe inspects the live machine state.
type Probe struct {
	locator *shell.Locator
	session SessionAliasLookup
	pkgs    npm.Manager
	home    string
	log     logger.Logger
}

// New creates a Probe over the given collaborators.
func New(locator *shell.Locator, session SessionAliasLookup, pkgs npm.Manager, home string, log logger.Logger) *Probe {
	if log == nil {
		log = logger.Noop()
	}
	return &Probe{
		locator: locator,
		session: session,
		pkgs:    pkgs,
		home:    home,
		log:     log,
	}
}

// Tool reports whether the CLI is available. Two independent signals are
// consulted: an executable on PATH, or a package-manager global install
// record. Either one suffices, since a tool may be installed outside the
// package manager's tracking.
func (p *Probe) Tool(ctx context.Context, spec manifest.ToolSpec) bool {
	if _, err := exec.LookPath(spec.Name); err == nil {
		return true
	}
	if spec.Package != "" && p.pkgs != nil && p.pkgs.Installed(ctx, spec.Package) {
		return true
	}
	return false
}

// EnvVar reports whether an assignment line for the variable exists in
// the primary config of the resolved shell.
func (p *Probe) EnvVar(name string) bool {
	profile := p.locator.Resolve()
	prefix := shell.EnvPrefix(profile.Kind, name)
	return shell.HasLineMatching(profile.ConfigPath, func(line string) bool {
		return shell.MatchesPrefix(line, prefix)
	})
}

// Alias reports whether the alias is installed anywhere. Signals in
// order, any match short-circuiting to true:
//  1. active in the current running shell session
//  2. a definition line in the resolved shell's config surface
//  3. a definition in a conventional alternate alias file
func (p *Probe) Alias(name string) bool {
	if p.session != nil && p.session.Active(name) {
		return true
	}

	profile := p.locator.Resolve()
	if AliasInFile(profile.Kind, profile.AliasTarget(), name) {
		return true
	}
	if profile.AliasPath != "" && AliasInFile(profile.Kind, profile.ConfigPath, name) {
		return true
	}

	for _, path := range shell.ConventionalAliasFiles(p.home) {
		if AliasInFile(profile.Kind, path, name) {
			return true
		}
	}

	return false
}

// AliasInFile reports whether a definition line for the alias exists in
// the given file. This file-only signal is what mutation eligibility is
// decided on: a rename must target the file, not just the runtime.
func AliasInFile(kind shell.Kind, path, name string) bool {
	prefix := shell.AliasPrefix(kind, name)
	return shell.HasLineMatching(path, func(line string) bool {
		return shell.MatchesPrefix(line, prefix)
	})
}

// Extension reports whether every marker artifact exists. A partial
// install, missing even one artifact, counts as not installed and
// triggers a re-install.
func (p *Probe) Extension(markers []string) bool {
	if len(markers) == 0 {
		return false
	}
	for _, marker := range markers {
		if _, err := os.Stat(marker); err != nil {
			return false
		}
	}
	return true
}
