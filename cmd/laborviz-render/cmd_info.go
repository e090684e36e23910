package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"laborviz/internal/charts"
	"laborviz/internal/models"
)

// newInfoCmd creates the info subcommand
func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the year range, indicators and dataset descriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			data, cleanup, err := openData(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			yr, ok, err := data.FetchYearRange(ctx)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			indicators, err := data.FetchIndicators(ctx)
			if err != nil {
				return fmt.Errorf("failed to load indicators: %w", err)
			}
			meta, err := data.FetchMetadata(ctx)
			if err != nil {
				return fmt.Errorf("failed to load metadata: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				info := map[string]interface{}{
					"source":     data.SourceName(),
					"indicators": indicators,
					"metadata":   meta,
				}
				if ok {
					info["year_range"] = yr
				}
				return writeJSON(out, info)
			}

			fmt.Fprintf(out, "Source:      %s\n", data.SourceName())
			if ok {
				fmt.Fprintf(out, "Years:       %d-%d\n", yr.Min, yr.Max)
			} else {
				fmt.Fprintln(out, "Years:       no data available")
			}
			catalog := models.DefaultCatalog()
			fmt.Fprintln(out, "Indicators:")
			for _, name := range indicators {
				fmt.Fprintf(out, "  %-26s %s\n", name, catalog.Label(name))
			}

			keys := make([]string, 0, len(meta))
			for k := range meta {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(out, "Datasets:")
			for _, k := range keys {
				fmt.Fprintf(out, "  %-20s %s\n", k, meta[k].Summary())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

// newCorrelationCmd creates the correlation subcommand
func newCorrelationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correlation [indicator]",
		Short: "Show correlation statistics against working hours",
		Long: `Show the correlation of an indicator with annual working hours. Without
an argument every indicator with a result is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			data, cleanup, err := openData(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			all, err := data.FetchCorrelations(ctx)
			if err != nil {
				return fmt.Errorf("failed to load correlations: %w", err)
			}

			names := args
			if len(names) == 0 {
				for name, r := range all {
					if r != nil {
						names = append(names, name)
					}
				}
				sort.Strings(names)
			}

			catalog := models.DefaultCatalog()
			stats := make([]charts.Stats, 0, len(names))
			for _, name := range names {
				r := all[name]
				if r == nil {
					return fmt.Errorf("no correlation result for %q", name)
				}
				stats = append(stats, charts.NewStats(name, catalog.Label(name), *r))
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, stats)
			}
			for i, s := range stats {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, s.Title())
				for _, row := range s.Rows() {
					fmt.Fprintf(out, "  %-22s %s\n", row.Label, row.Value)
				}
			}
			if len(stats) > 1 {
				fmt.Fprintf(out, "\n%s indicators analysed\n", humanize.Comma(int64(len(stats))))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
