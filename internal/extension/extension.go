// Package extension installs named command bundles and records them in
// the enabled registry. The installer is generic: each extension supplies
// its own marker-artifact set and install action, and adding a new
// extension means adding a descriptor, not touching the install flow.
package extension

import (
	"fmt"

	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
	"github.com/0x1NotMe/claude-workspace-tools/internal/probe"
	"github.com/0x1NotMe/claude-workspace-tools/internal/prompt"
	"github.com/0x1NotMe/claude-workspace-tools/internal/registry"
)

// Extension describes one installable command bundle.
type Extension struct {
	// ID is the registry identifier
	ID string
	// DisplayName is shown in prompts and summaries
	DisplayName string
	// Categories are informational tags
	Categories []string

	// Markers returns the artifact paths that must ALL exist for the
	// extension to count as installed. A partial install is not
	// installed and is eligible for re-install.
	Markers func(home string) []string

	// Install writes every artifact. It must be safe to run over the
	// remains of a partial install.
	Install func(home string) error
}

// InstallStatus classifies the outcome of an Ensure call.
type InstallStatus int

const (
	// StatusAlreadyPresent means every marker existed and no install ran
	StatusAlreadyPresent InstallStatus = iota
	// StatusInstalled means the install action ran and succeeded
	StatusInstalled
	// StatusSkipped means the user declined; nothing was mutated
	StatusSkipped
	// StatusFailed means the install action or registry write failed
	StatusFailed
)

// String returns a human-readable status name.
func (s InstallStatus) String() string {
	switch s {
	case StatusAlreadyPresent:
		return "already present"
	case StatusInstalled:
		return "installed"
	case StatusSkipped:
		return "skipped by user"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InstallResult is the outcome of ensuring one extension.
type InstallResult struct {
	ID     string
	Status InstallStatus
	Reason error
}

// Installer converges extensions onto the machine and keeps the enabled
// registry in sync with reality.
type Installer struct {
	probe   *probe.Probe
	store   *registry.Store
	confirm prompt.Confirmer
	home    string
	log     logger.Logger
}

// NewInstaller creates an Installer.
func NewInstaller(p *probe.Probe, store *registry.Store, confirm prompt.Confirmer, home string, log logger.Logger) *Installer {
	if log == nil {
		log = logger.Noop()
	}
	return &Installer{probe: p, store: store, confirm: confirm, home: home, log: log}
}

// Ensure converges one extension.
//
// Present and not forced: the extension is recorded as enabled even when
// its artifacts were installed out-of-band, then AlreadyPresent. Absent,
// or present with force: the install action runs after confirmation.
// A decline skips without touching the registry; a failed action returns
// Failed and the registry is never updated for it, so the enabled list
// cannot claim success for a half-installed extension.
func (i *Installer) Ensure(ext Extension, force bool) InstallResult {
	present := i.probe.Extension(ext.Markers(i.home))

	if present && !force {
		if err := i.store.Add(ext.ID); err != nil {
			return InstallResult{ID: ext.ID, Status: StatusFailed,
				Reason: fmt.Errorf("record enabled: %w", err)}
		}
		return InstallResult{ID: ext.ID, Status: StatusAlreadyPresent}
	}

	verb := "Install"
	if present {
		verb = "Reinstall"
	}
	if !i.confirm.Confirm(fmt.Sprintf("%s extension %q?", verb, ext.DisplayName)) {
		return InstallResult{ID: ext.ID, Status: StatusSkipped}
	}

	if err := ext.Install(i.home); err != nil {
		i.log.Error("extension install failed", "extension", ext.ID, "error", err)
		return InstallResult{ID: ext.ID, Status: StatusFailed, Reason: err}
	}

	if err := i.store.Add(ext.ID); err != nil {
		return InstallResult{ID: ext.ID, Status: StatusFailed,
			Reason: fmt.Errorf("record enabled: %w", err)}
	}

	i.log.Info("installed extension", "extension", ext.ID)
	return InstallResult{ID: ext.ID, Status: StatusInstalled}
}
