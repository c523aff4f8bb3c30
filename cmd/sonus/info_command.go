package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sonus/internal/odm"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "info <book.odm>",
		Short:       "Show what a loan manifest contains",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := odm.ParseFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:    %s\n", m.Title)
			fmt.Fprintf(out, "Author:   %s\n", joinAuthors(m))
			fmt.Fprintf(out, "Media ID: %s\n", m.MediaID)
			fmt.Fprintf(out, "Size:     %s\n", formatBytes(m.TotalSizeBytes()))
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(m.Parts))
			for _, part := range m.Parts {
				rows = append(rows, []string{
					strconv.Itoa(part.Number),
					part.Name,
					part.Duration,
					formatBytes(part.SizeBytes),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Part", "Duration", "Size"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func joinAuthors(m *odm.Manifest) string {
	authors := m.Authors()
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	default:
		result := authors[0]
		for _, author := range authors[1:] {
			result += ", " + author
		}
		return result
	}
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	suffix := suffixes[0]
	for _, s := range suffixes {
		suffix = s
		value /= unit
		if value < unit {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", value, suffix)
}
