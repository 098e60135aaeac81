package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newscast/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report readiness of directories, credentials, and binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "missing"
					if result.Optional {
						state = "missing (optional)"
					}
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "State", "Detail"}, rows))

			if failed := preflight.Failures(results); len(failed) > 0 {
				return fmt.Errorf("%d required checks failed", len(failed))
			}
			return nil
		},
	}
}
