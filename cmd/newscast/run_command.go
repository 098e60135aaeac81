package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newscast/internal/preflight"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full weekly episode pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dryRun && !skipPreflight {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				failed := preflight.Failures(preflight.RunAll(cmd.Context(), cfg))
				if len(failed) > 0 {
					names := make([]string, 0, len(failed))
					for _, result := range failed {
						names = append(names, fmt.Sprintf("%s: %s", result.Name, result.Detail))
					}
					return fmt.Errorf("preflight failed: %s", strings.Join(names, "; "))
				}
			}

			p, err := ctx.newPipeline(dryRun)
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Stop after script generation and print the script")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip readiness checks before the run")
	return cmd
}
