package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/0x1NotMe/claude-workspace-tools/internal/extension"
	"github.com/0x1NotMe/claude-workspace-tools/internal/reconcile"
	"github.com/0x1NotMe/claude-workspace-tools/internal/registry"
)

// builtinExtensions is indirected for tests.
var builtinExtensions = extension.Builtin

func newInstallCommand(verbose *bool) *cobra.Command {
	var (
		force       bool
		overlayPath string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Converge the machine onto the declared workspace state",
		Long: "install runs the full convergence sequence: tool checks, extension\n" +
			"installs, environment variables, alias migration and installation,\n" +
			"deprecated alias cleanup, and a registry rebuild. In interactive mode\n" +
			"every mutation asks first; --force answers yes everywhere and\n" +
			"refreshes existing installations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(*verbose)
			if err != nil {
				return err
			}

			lock, err := registry.AcquireLock(filepath.Join(e.home, ".claude"))
			if err != nil {
				return err
			}
			defer lock.Release()

			man := e.loadManifest(overlayPath)
			orch := e.orchestrator(man, force)

			report := orch.Run(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), reconcile.FormatReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"auto-approve every decision and refresh existing installations")
	cmd.Flags().StringVar(&overlayPath, "manifest", "",
		"path to a workspace.lua overlay (default ~/.claude/workspace.lua)")
	return cmd
}
