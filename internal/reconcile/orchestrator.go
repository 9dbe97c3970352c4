// Package reconcile drives a full convergence run: probe current state,
// apply the user's decisions through the installers and the alias
// reconciler, persist the registry, and summarize ground truth.
//
// Failures are local to the affected unit. The orchestrator never aborts
// the run because one component failed; it aggregates per-unit results
// and reports them at the end. The registry rebuild at the end of the
// run is unconditional and is the sole correctness backstop for runs
// killed partway through.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/0x1NotMe/claude-workspace-tools/internal/alias"
	"github.com/0x1NotMe/claude-workspace-tools/internal/extension"
	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
	"github.com/0x1NotMe/claude-workspace-tools/internal/manifest"
	"github.com/0x1NotMe/claude-workspace-tools/internal/npm"
	"github.com/0x1NotMe/claude-workspace-tools/internal/probe"
	"github.com/0x1NotMe/claude-workspace-tools/internal/prompt"
	"github.com/0x1NotMe/claude-workspace-tools/internal/registry"
	"github.com/0x1NotMe/claude-workspace-tools/internal/shell"
)

// Config wires an Orchestrator. Zero-value collaborators get sensible
// defaults; only Manifest, Home, and RegistryPath are required.
type Config struct {
	Manifest   manifest.Manifest
	Extensions []extension.Extension

	// Home is the user's home directory, the root of all mutated state
	Home string
	// Force auto-approves every decision and refreshes existing installs
	Force bool

	// Session is the read-only live-session alias signal; nil means
	// "no session signal" (every alias check falls through to files)
	Session probe.SessionAliasLookup
	// Packages is the package-manager collaborator; nil uses the npm CLI
	Packages npm.Manager
	// Confirm overrides the prompt collaborator; nil derives it from Force
	Confirm prompt.Confirmer

	// RegistryPath is the enabled-extension registry file
	RegistryPath string
	// ReportPath, when set, receives the JSON run report
	ReportPath string

	Log logger.Logger
}

// Orchestrator sequences the convergence phases.
type Orchestrator struct {
	man        manifest.Manifest
	extensions []extension.Extension
	home       string
	force      bool
	reportPath string

	locator   *shell.Locator
	probe     *probe.Probe
	store     *registry.Store
	pkgs      npm.Manager
	confirm   prompt.Confirmer
	installer *extension.Installer
	log       logger.Logger
}

// New builds an Orchestrator from the config.
func New(cfg Config) *Orchestrator {
	log := cfg.Log
	if log == nil {
		log = logger.Noop()
	}

	pkgs := cfg.Packages
	if pkgs == nil {
		pkgs = npm.NewCLI(log)
	}

	confirm := cfg.Confirm
	if confirm == nil {
		if cfg.Force {
			confirm = prompt.Forced{}
		} else {
			confirm = prompt.NewInteractive(nil, nil)
		}
	}

	locator := shell.NewLocator(cfg.Home, log)
	stateProbe := probe.New(locator, cfg.Session, pkgs, cfg.Home, log)
	store := registry.NewStore(cfg.RegistryPath, log)

	return &Orchestrator{
		man:        cfg.Manifest,
		extensions: cfg.Extensions,
		home:       cfg.Home,
		force:      cfg.Force,
		reportPath: cfg.ReportPath,
		locator:    locator,
		probe:      stateProbe,
		store:      store,
		pkgs:       pkgs,
		confirm:    confirm,
		installer:  extension.NewInstaller(stateProbe, store, confirm, cfg.Home, log),
		log:        log,
	}
}

// Store exposes the registry store, mainly for status inspection.
func (o *Orchestrator) Store() *registry.Store {
	return o.store
}

type actionKey struct {
	kind UnitKind
	id   string
}

// Run executes the full convergence sequence:
// tools → extensions → env vars → alias migration → alias installation →
// deprecated alias cleanup → registry rebuild (always) → summary from a
// fresh re-probe.
func (o *Orchestrator) Run(ctx context.Context) *Report {
	profile := o.locator.Resolve()

	report := newReport(o.force)
	report.ShellKind = profile.Kind.String()
	report.ConfigPath = profile.ConfigPath
	report.AliasPath = profile.AliasPath
	report.RegistryPath = o.store.Path()

	actions := map[actionKey]UnitResult{}
	record := func(kind UnitKind, id string, outcome Outcome, reason string) {
		actions[actionKey{kind, id}] = UnitResult{Kind: kind, ID: id, Outcome: outcome, Reason: reason}
	}

	// Corruption is judged against the registry as the run found it; the
	// first extension enable already rewrites the canonical form, so the
	// final rebuild alone cannot tell.
	salvaged := o.store.Load().Salvaged

	// Phase 1: tools
	for _, tool := range o.man.Tools {
		o.ensureTool(ctx, tool, record)
	}

	// Phase 2: extensions
	for _, ext := range o.extensions {
		if o.man.ExtensionDisabled(ext.ID) {
			o.log.Debug("extension disabled by overlay", "extension", ext.ID)
			continue
		}
		res := o.installer.Ensure(ext, o.force)
		reason := ""
		if res.Reason != nil {
			reason = res.Reason.Error()
		}
		record(KindExtension, res.ID, installOutcome(res.Status), reason)
	}

	// Phase 3: environment variables
	for _, envVar := range o.man.EnvVars {
		o.ensureEnvVar(profile, envVar, record)
	}

	// Phases 4-6: alias migration, installation, deprecation cleanup.
	// Migration always precedes removal so a migrated alias, having
	// already changed its name, is never caught by the deprecation pass.
	reconciler := alias.NewReconciler(profile, o.confirm, o.log)

	for _, res := range reconciler.Migrate(o.man.Migrations) {
		if res.Status == alias.MigrationSkippedAbsent {
			continue
		}
		report.Migrations = append(report.Migrations, MigrationRecord{
			Old:    res.Migration.Old,
			New:    res.Migration.New,
			Status: res.Status.String(),
		})
	}

	o.installAliases(reconciler, record)

	removed, err := reconciler.RemoveDeprecated(o.man.DeprecatedAliases)
	if err != nil {
		report.Notes = append(report.Notes, fmt.Sprintf("deprecated alias cleanup: %v", err))
	}
	report.RemovedAliases = removed

	// Phase 7: registry rebuild, unconditionally
	rebuild, err := o.store.Rebuild()
	if err != nil {
		report.Notes = append(report.Notes, fmt.Sprintf("registry rebuild: %v", err))
	} else {
		report.RegistrySalvage = salvaged || rebuild.Recovered
		if report.RegistrySalvage {
			report.Notes = append(report.Notes, "registry was corrupted and has been rebuilt from salvaged entries")
		}
	}

	// Phase 8: summary from ground truth
	report.Summary = o.summarize(ctx, actions)

	if o.reportPath != "" {
		if err := report.Save(o.reportPath); err != nil {
			o.log.Warn("could not persist run report", "path", o.reportPath, "error", err)
		}
	}

	return report
}

// Status probes every managed unit and reports ground truth without
// mutating anything: no prompts, no installs, no registry writes.
func (o *Orchestrator) Status(ctx context.Context) *Report {
	profile := o.locator.Resolve()

	report := newReport(false)
	report.ShellKind = profile.Kind.String()
	report.ConfigPath = profile.ConfigPath
	report.AliasPath = profile.AliasPath
	report.RegistryPath = o.store.Path()
	report.Summary = o.summarize(ctx, map[actionKey]UnitResult{})
	return report
}

// ensureTool converges one external CLI. Tools without a package mapping
// are check-only: when absent they are reported missing rather than
// failed, since no install action exists to fail.
func (o *Orchestrator) ensureTool(ctx context.Context, tool manifest.ToolSpec, record func(UnitKind, string, Outcome, string)) {
	present := o.probe.Tool(ctx, tool)

	if present && !o.force {
		record(KindTool, tool.Name, OutcomeAlreadyPresent, "")
		return
	}

	if tool.Package == "" {
		if present {
			record(KindTool, tool.Name, OutcomeAlreadyPresent, "")
		} else {
			record(KindTool, tool.Name, OutcomeMissing, "not found on PATH and not package-managed")
		}
		return
	}

	verb := "Install"
	if present {
		verb = "Refresh"
	}
	if !o.confirm.Confirm(fmt.Sprintf("%s %s (npm package %s)?", verb, tool.Name, tool.Package)) {
		record(KindTool, tool.Name, OutcomeSkipped, "")
		return
	}

	if err := o.pkgs.Install(ctx, tool.Package); err != nil {
		if errors.Is(err, npm.ErrUnavailable) {
			record(KindTool, tool.Name, OutcomeMissing, "npm not available")
		} else {
			record(KindTool, tool.Name, OutcomeFailed, err.Error())
		}
		return
	}
	record(KindTool, tool.Name, OutcomeInstalled, "")
}

// ensureEnvVar converges one persisted environment variable on the
// primary config file. EnvVar mutations never target the aliases file.
func (o *Orchestrator) ensureEnvVar(profile shell.Profile, envVar manifest.EnvVar, record func(UnitKind, string, Outcome, string)) {
	present := o.probe.EnvVar(envVar.Name)

	if present && !o.force {
		record(KindEnvVar, envVar.Name, OutcomeAlreadyPresent, "")
		return
	}

	desired := shell.EnvLine(profile.Kind, envVar.Name, envVar.Value)
	if !o.confirm.Confirm(fmt.Sprintf("Set %s in %s?", envVar.Name, profile.ConfigPath)) {
		record(KindEnvVar, envVar.Name, OutcomeSkipped, "")
		return
	}

	var err error
	if present {
		prefix := shell.EnvPrefix(profile.Kind, envVar.Name)
		_, err = shell.RewriteLinesMatching(profile.ConfigPath,
			func(line string) bool { return shell.MatchesPrefix(line, prefix) },
			func(string) string { return desired })
	} else {
		err = shell.AppendLine(profile.ConfigPath, desired)
	}
	if err != nil {
		record(KindEnvVar, envVar.Name, OutcomeFailed, err.Error())
		return
	}
	record(KindEnvVar, envVar.Name, OutcomeInstalled, "")
}

// installAliases converges the desired alias set. Presence is judged by
// the full probe (session signal included) so a live alias is not
// re-appended; the reconciler then guards against duplicate file lines.
func (o *Orchestrator) installAliases(reconciler *alias.Reconciler, record func(UnitKind, string, Outcome, string)) {
	var pending []manifest.Alias
	for _, a := range o.man.Aliases {
		if !o.force && o.probe.Alias(a.Name) {
			record(KindAlias, a.Name, OutcomeAlreadyPresent, "")
			continue
		}
		pending = append(pending, a)
	}
	if len(pending) == 0 {
		return
	}

	installed, err := reconciler.Install(pending, o.force)
	if err != nil {
		for _, a := range pending {
			record(KindAlias, a.Name, OutcomeFailed, err.Error())
		}
		return
	}

	wrote := map[string]bool{}
	for _, a := range installed {
		wrote[a.Name] = true
	}
	for _, a := range pending {
		if wrote[a.Name] {
			record(KindAlias, a.Name, OutcomeInstalled, "")
		} else {
			record(KindAlias, a.Name, OutcomeSkipped, "")
		}
	}
}

// summarize re-probes every managed unit and classifies it. Presence
// always comes from the fresh probe; the remembered action only decides
// between "already present" and "newly installed" for present units, and
// supplies the reason for absent ones.
func (o *Orchestrator) summarize(ctx context.Context, actions map[actionKey]UnitResult) []UnitResult {
	var summary []UnitResult

	classify := func(kind UnitKind, id string, present bool) {
		action, acted := actions[actionKey{kind, id}]
		switch {
		case present && acted && action.Outcome == OutcomeInstalled:
			summary = append(summary, UnitResult{Kind: kind, ID: id, Outcome: OutcomeInstalled})
		case present:
			summary = append(summary, UnitResult{Kind: kind, ID: id, Outcome: OutcomeAlreadyPresent})
		case acted && action.Outcome != OutcomeAlreadyPresent && action.Outcome != OutcomeInstalled:
			summary = append(summary, action)
		default:
			// Absent with no explaining action, or an action whose
			// claimed success the re-probe contradicts.
			summary = append(summary, UnitResult{Kind: kind, ID: id, Outcome: OutcomeMissing})
		}
	}

	for _, tool := range o.man.Tools {
		classify(KindTool, tool.Name, o.probe.Tool(ctx, tool))
	}
	for _, ext := range o.extensions {
		if o.man.ExtensionDisabled(ext.ID) {
			continue
		}
		classify(KindExtension, ext.ID, o.probe.Extension(ext.Markers(o.home)))
	}
	for _, envVar := range o.man.EnvVars {
		classify(KindEnvVar, envVar.Name, o.probe.EnvVar(envVar.Name))
	}
	for _, a := range o.man.Aliases {
		classify(KindAlias, a.Name, o.probe.Alias(a.Name))
	}

	return summary
}

// installOutcome maps extension install statuses onto run outcomes.
func installOutcome(status extension.InstallStatus) Outcome {
	switch status {
	case extension.StatusAlreadyPresent:
		return OutcomeAlreadyPresent
	case extension.StatusInstalled:
		return OutcomeInstalled
	case extension.StatusSkipped:
		return OutcomeSkipped
	default:
		return OutcomeFailed
	}
}
