package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0x1NotMe/claude-workspace-tools/internal/reconcile"
)

func newStatusCommand(verbose *bool) *cobra.Command {
	var overlayPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Probe every managed unit without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(*verbose)
			if err != nil {
				return err
			}

			man := e.loadManifest(overlayPath)
			orch := e.orchestrator(man, false)

			report := orch.Status(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), reconcile.FormatReport(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&overlayPath, "manifest", "",
		"path to a workspace.lua overlay (default ~/.claude/workspace.lua)")
	return cmd
}
