package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sonus/internal/library"
	"sonus/internal/odm"
	"sonus/internal/services"
)

func newReturnCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "return <book.odm>",
		Short: "Return a loan to the library early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			m, err := odm.ParseFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = odm.EarlyReturn(cmd.Context(), ctx.licenseClient(cfg), m)
			switch {
			case errors.Is(err, odm.ErrAlreadyReturned):
				fmt.Fprintf(out, "%q was already returned\n", m.Title)
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "Returned %q to the library\n", m.Title)
			}

			store, err := library.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if _, err := store.MarkReturned(cmd.Context(), m.MediaID); err != nil {
				// The loan may never have been downloaded through sonus.
				if errors.Is(err, services.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("record return: %w", err)
			}
			return nil
		},
	}
}
