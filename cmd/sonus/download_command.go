package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download <book.odm>",
		Short: "Download a loan's audio parts without chapterizing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			release, err := ctx.acquireLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			m, bookDir, err := downloadLoan(cmd.Context(), ctx, cfg, logger, args[0], cfg.Paths.OutputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d parts of %q to %s\n", len(m.Parts), m.Title, bookDir)
			return nil
		},
	}
}
