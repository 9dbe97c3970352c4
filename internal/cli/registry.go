package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0x1NotMe/claude-workspace-tools/internal/registry"
)

func newRegistryCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and repair the enabled-extension registry",
	}

	rebuild := &cobra.Command{
		Use:   "rebuild",
		Short: "Rewrite the registry in canonical form, salvaging corruption",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(*verbose)
			if err != nil {
				return err
			}

			store := registry.NewStore(e.registryPath, e.log)
			result, err := store.Rebuild()
			if err != nil {
				return fmt.Errorf("rebuild registry: %w", err)
			}

			out := cmd.OutOrStdout()
			if result.Recovered {
				fmt.Fprintln(out, "registry was corrupted; rebuilt from salvaged entries")
			}
			if len(result.Entries) == 0 {
				fmt.Fprintln(out, "registry is empty")
				return nil
			}
			fmt.Fprintf(out, "enabled extensions: %s\n", strings.Join(result.Entries, ", "))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List enabled extensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(*verbose)
			if err != nil {
				return err
			}

			store := registry.NewStore(e.registryPath, e.log)
			for _, entry := range store.Load().Entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}

	cmd.AddCommand(rebuild, list)
	return cmd
}
