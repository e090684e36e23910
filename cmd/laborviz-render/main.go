package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"laborviz/internal/config"
	"laborviz/internal/fetchers"
	"laborviz/internal/logger"
	"laborviz/internal/mocks"
	"laborviz/internal/storage"
)

var (
	// Flags
	sourceKind string
	dataDir    string
	apiURL     string
	timeout    time.Duration
	debug      bool
	jsonOutput bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "laborviz-render",
		Short: "Render dashboard charts without the web server",
		Long: `laborviz-render draws the dashboard charts from the command line.

Commands:
  laborviz-render render --kind correlation -o chart.svg
  laborviz-render info
  laborviz-render correlation [indicator]`,
		Version:      config.GetVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if debug {
				level = "debug"
			}
			_, err := logger.Setup(logger.Options{Level: level, Format: "text"})
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&sourceKind, "source", config.SourceMock, "data source: rest, static or mock")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "directory holding the static JSON documents")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", fetchers.DefaultLocalAPI, "base URL of the analysis API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall fetch timeout")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newRenderCmd(),
		newInfoCmd(),
		newCorrelationCmd(),
	)
	return rootCmd
}

// openData builds the data access layer from the global flags. The
// returned cleanup releases any storage the source holds.
func openData(ctx context.Context) (*fetchers.DataAccess, func(), error) {
	noop := func() {}
	switch sourceKind {
	case config.SourceREST:
		return fetchers.NewDataAccess(fetchers.NewRESTSource(apiURL, timeout)), noop, nil
	case config.SourceStatic:
		store, err := storage.NewLocalStorageClient(dataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open %s: %w", dataDir, err)
		}
		return fetchers.NewDataAccess(fetchers.NewStaticSource(store)), func() { store.Close() }, nil
	case config.SourceMock:
		return fetchers.NewDataAccess(mocks.NewMockService()), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown source %q: want rest, static or mock", sourceKind)
}
