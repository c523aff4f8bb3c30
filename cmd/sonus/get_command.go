package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sonus/internal/deps"
	"sonus/internal/library"
	"sonus/internal/logging"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	var genericNames bool

	cmd := &cobra.Command{
		Use:   "get <book.odm>",
		Short: "Download a loan and split it into per-chapter files",
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
			if err := deps.Verify(cfg); err != nil {
				return err
			}

			release, err := ctx.acquireLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			// Parts stage under the data dir; chapterizing a directory
			// inside the output tree would rescan chapter files from an
			// earlier run, which carry no marker tag.
			m, partsDir, err := downloadLoan(cmd.Context(), ctx, cfg, logger, args[0], stagingRoot(cfg))
			if err != nil {
				return err
			}

			outputs, err := newChapterizer(cfg, logger, genericNames).Run(cmd.Context(), partsDir, cfg.Paths.OutputDir)
			if err != nil {
				return err
			}

			chapterDir := ""
			if len(outputs) > 0 {
				chapterDir = filepath.Dir(outputs[0])
			}
			store, err := library.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if _, err := store.MarkChapterized(cmd.Context(), m.MediaID, len(outputs), chapterDir); err != nil {
				return fmt.Errorf("record chapterize: %w", err)
			}

			if err := os.RemoveAll(partsDir); err != nil {
				logger.Warn("could not remove staged parts", logging.Args(logging.Error(err))...)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Chapterized %q by %s into %d files\n", m.Title, m.Author, len(outputs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&genericNames, "generic-names", false, `Name chapters "Chapter N" instead of using embedded marker names`)
	return cmd
}
