// Package cli wires the cwt command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
	"github.com/0x1NotMe/claude-workspace-tools/internal/manifest"
	"github.com/0x1NotMe/claude-workspace-tools/internal/probe"
	"github.com/0x1NotMe/claude-workspace-tools/internal/reconcile"
	"github.com/0x1NotMe/claude-workspace-tools/internal/shell"
)

// Version is set at build time via -ldflags.
var Version = "v0.1.0-dev"

// env holds paths and collaborators shared by the commands.
type env struct {
	home         string
	registryPath string
	overlayPath  string
	reportPath   string
	log          logger.Logger
}

// NewRootCmd wires the cobra root command.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "cwt",
		Short: "cwt - Claude workspace tools",
		Long: "cwt converges a developer machine onto the declared workspace state:\n" +
			"CLI tools, shell aliases, environment variables, and command extensions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newInstallCommand(&verbose))
	root.AddCommand(newStatusCommand(&verbose))
	root.AddCommand(newRegistryCommand(&verbose))
	root.AddCommand(newVersionCommand())
	return root
}

// buildEnv resolves the standard file locations under the user's home.
func buildEnv(verbose bool) (*env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determine home directory: %w", err)
	}
	claudeDir := filepath.Join(home, ".claude")
	return &env{
		home:         home,
		registryPath: filepath.Join(claudeDir, "enabled.yaml"),
		overlayPath:  filepath.Join(claudeDir, "workspace.lua"),
		reportPath:   filepath.Join(claudeDir, "state", "last-run.json"),
		log:          logger.NewStd(verbose),
	}, nil
}

// session builds the live-shell alias lookup from the detected shell.
func (e *env) session() probe.SessionAliasLookup {
	det := shell.DetectKind()
	if det.ShellPath == "" {
		return nil
	}
	return probe.NewShellSession(det.Kind, det.ShellPath)
}

// loadManifest reads the desired state, optionally from a non-default
// overlay path.
func (e *env) loadManifest(overlayOverride string) manifest.Manifest {
	path := e.overlayPath
	if overlayOverride != "" {
		path = overlayOverride
	}
	return manifest.Load(path, e.log)
}

// orchestrator builds a convergence orchestrator for this environment.
func (e *env) orchestrator(man manifest.Manifest, force bool) *reconcile.Orchestrator {
	return reconcile.New(reconcile.Config{
		Manifest:     man,
		Extensions:   builtinExtensions(),
		Home:         e.home,
		Force:        force,
		Session:      e.session(),
		RegistryPath: e.registryPath,
		ReportPath:   e.reportPath,
		Log:          e.log,
	})
}
