package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"callforscience/config"
	"callforscience/services"
	"callforscience/upstream"
	"callforscience/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger

	verbose    bool
	sourceFile string
	sourceURL  string
)

var rootCmd = &cobra.Command{
	Use:   "callforscience",
	Short: "Browse open academic calls for papers",
	Long: `callforscience fetches the Call For Science CSV sheet and serves it as a
filterable, paginated, bilingual card grid. The same filters are available
from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if sourceURL != "" {
			cfg.SourceURL = sourceURL
		}
		logger = utils.NewLogger(verbose || cfg.Debug())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&sourceFile, "file", "", "read the CSV from a local file instead of the upstream URL")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "source", "", "override the upstream CSV URL")

	rootCmd.AddCommand(serveCmd, listCmd, topicsCmd, statsCmd, exportCmd, snapshotCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newSource picks the local file when --file is set, the upstream URL otherwise.
func newSource() services.Source {
	if sourceFile != "" {
		return upstream.FileSource{Path: sourceFile}
	}
	return upstream.NewFetcher(nil, cfg.SourceURL, cfg.FetchTimeout, logger)
}

// loadSnapshot fetches and cleans the dataset for a CLI command, retrying the
// fetch up to FETCH_ATTEMPTS times.
func loadSnapshot(ctx context.Context) (*services.Snapshot, error) {
	source := newSource()
	catalog := services.NewCatalog(source, logger)
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.FetchAttempts,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	var body []byte
	err := retry.Do(ctx, "fetch-csv", func(ctx context.Context) error {
		var err error
		body, err = source.Fetch(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return catalog.FromBytes(body)
}
