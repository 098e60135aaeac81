package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiDim   = "\x1b[2m"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the configured news sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			rows := make([][]string, 0, len(cfg.Sources))
			for _, source := range cfg.Sources {
				if !showAll && !source.Enabled {
					continue
				}
				state := "enabled"
				if !source.Enabled {
					state = "disabled"
				}
				if colorize {
					if source.Enabled {
						state = ansiGreen + state + ansiReset
					} else {
						state = ansiDim + state + ansiReset
					}
				}
				rows = append(rows, []string{
					source.Name,
					strings.ToUpper(source.Provider),
					source.Method,
					state,
					source.URL,
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No sources configured")
				return nil
			}

			headers := []string{"Name", "Provider", "Method", "State", "URL"}
			fmt.Fprintln(out, renderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Include disabled sources")
	return cmd
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
