package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"laborviz/internal/canvas"
	"laborviz/internal/charts"
	"laborviz/internal/models"
)

// newRenderCmd creates the render subcommand
func newRenderCmd() *cobra.Command {
	var (
		kindName   string
		formatName string
		output     string
		indicator  string
		startYear  int
		endYear    int
		width      int
		height     int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one chart to a PNG or SVG file",
		Long: `Render one chart kind (timeseries, correlation, comparison, reading)
to a file. The correlation chart carries the regression overlay and the
statistics of the selected indicator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := charts.ParseKind(kindName)
			if err != nil {
				return err
			}
			format, err := canvas.ParseFormat(formatName)
			if err != nil {
				return err
			}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("image size must be positive, got %dx%d", width, height)
			}
			if output == "" {
				output = fmt.Sprintf("%s.%s", kind, format)
			}

			var filter models.YearFilter
			if cmd.Flags().Changed("start") {
				filter.Start = models.Int(startYear)
			}
			if cmd.Flags().Changed("end") {
				filter.End = models.Int(endYear)
			}
			if filter.Start != nil && filter.End != nil && *filter.Start > *filter.End {
				return fmt.Errorf("start year %d is after end year %d", startYear, endYear)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			data, cleanup, err := openData(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			dataset, err := data.FetchDataset(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			opts := charts.Options{Indicator: indicator}
			if kind == charts.KindCorrelation {
				result, err := data.FetchCorrelation(ctx, indicator)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: correlation unavailable, drawing without overlay: %v\n", err)
				}
				opts.Correlation = result
			}

			layout := charts.DefaultLayout()
			layout.Width, layout.Height = width, height
			renderer, err := charts.NewRenderer(kind, layout)
			if err != nil {
				return err
			}
			renderer.Render(dataset, opts)

			var buf bytes.Buffer
			if err := renderer.Encode(format, &buf); err != nil {
				return fmt.Errorf("failed to encode chart: %w", err)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d records)\n", output, humanize.Bytes(uint64(buf.Len())), len(dataset))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindName, "kind", "k", string(charts.KindTimeSeries), "chart kind")
	cmd.Flags().StringVarP(&formatName, "format", "f", string(canvas.FormatSVG), "image format: png or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <kind>.<format>)")
	cmd.Flags().StringVarP(&indicator, "indicator", "i", models.DefaultIndicator, "economic indicator")
	cmd.Flags().IntVar(&startYear, "start", 0, "first year to include")
	cmd.Flags().IntVar(&endYear, "end", 0, "last year to include")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 500, "image height")
	return cmd
}
