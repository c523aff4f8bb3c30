package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sonus/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that required external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			allAvailable := true
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					detail = status.Description
				} else {
					allAvailable = false
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					detail,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Found", "Notes"},
				rows,
				nil,
			))
			if !allAvailable {
				return deps.Verify(cfg)
			}
			return nil
		},
	}
}
