package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sonus/internal/config"
	"sonus/internal/deps"
)

func newChapterizeCommand(ctx *commandContext) *cobra.Command {
	var genericNames bool
	var outputDir string

	cmd := &cobra.Command{
		Use:   "chapterize <parts-dir>",
		Short: "Split already-downloaded audio parts into per-chapter files",
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

			inputDir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			target := cfg.Paths.OutputDir
			if outputDir != "" {
				if target, err = config.ExpandPath(outputDir); err != nil {
					return err
				}
			}

			release, err := ctx.acquireLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			outputs, err := newChapterizer(cfg, logger, genericNames).Run(cmd.Context(), inputDir, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chapter files\n", len(outputs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&genericNames, "generic-names", false, `Name chapters "Chapter N" instead of using embedded marker names`)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Destination directory (defaults to paths.output_dir)")
	return cmd
}
