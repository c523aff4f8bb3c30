package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sonus/internal/library"
	"sonus/internal/organizer"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List downloaded loans and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := library.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			loans, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(loans) == 0 {
				fmt.Fprintln(out, "No loans recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(loans))
			for _, loan := range loans {
				chapters := ""
				if loan.Chapters > 0 {
					chapters = strconv.Itoa(loan.Chapters)
				}
				rows = append(rows, []string{
					loan.Title,
					organizer.PrimaryAuthor(loan.Author),
					loan.Status,
					chapters,
					loan.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Author", "Status", "Chapters", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
