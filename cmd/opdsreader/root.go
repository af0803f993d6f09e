package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kerbaras/opdsreader/pkg/app"
	"github.com/kerbaras/opdsreader/pkg/app/screens"
	"github.com/kerbaras/opdsreader/pkg/config"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/logging"
	"github.com/kerbaras/opdsreader/pkg/services"
	"github.com/kerbaras/opdsreader/pkg/sources"
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	cfg        *config.Config
	source     *sources.Kavita
	controller *services.ReaderController
)

var rootCmd = &cobra.Command{
	Use:   "opdsreader",
	Short: "A terminal reader for OPDS comic and manga libraries",
	Long:  "Browse a Kavita OPDS catalog and read its chapters as a vertical page stream",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default
		a := app.NewApp(controller, screens.Options{FallbackHeight: cfg.Reader.FallbackHeight})
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or ~/.opdsreader/config.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "server URL, e.g. http://localhost:5000")
	rootCmd.PersistentFlags().String("api-key", "", "OPDS API key")
	rootCmd.PersistentFlags().String("library", "", "library id")

	// Add all subcommands
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup loads the configuration and builds the reader shared by every command.
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Init(filepath.Join(config.Dir(), "logs"), cfg.Log.Path, cfg.Log.Level); err != nil {
		return err
	}

	source = sources.NewKavita(sources.KavitaOptions{
		BaseURL:   cfg.Server.BaseURL,
		OPDSPath:  cfg.Server.OPDSPath,
		APIKey:    cfg.Server.APIKey,
		LibraryID: cfg.Server.LibraryID,
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
	})
	pages := services.NewPageLoader(services.PageLoaderOptions{
		Concurrency:       cfg.Reader.Concurrency,
		RequestsPerSecond: cfg.Reader.RequestsPerSecond,
		Timeout:           cfg.HTTP.Timeout,
		UserAgent:         cfg.HTTP.UserAgent,
		Redact:            source.Redact,
	})

	var store services.ProgressStore
	repo, err := data.NewDuckDBRepository(cfg.Database.Path)
	if err != nil {
		// reading still works, bookmarks are just not kept
		logging.Error("progress store unavailable", "path", cfg.Database.Path, "err", err)
		fmt.Fprintf(os.Stderr, "⚠️  Reading progress disabled: %v\n", err)
	} else {
		store = repo
	}

	controller = services.NewReaderController(source, store, pages)
	logging.Info("starting", "command", cmd.Name(), "server", cfg.Server.BaseURL, "library", cfg.Server.LibraryID)
	return nil
}

func teardown() {
	if controller != nil {
		if err := controller.Close(); err != nil {
			logging.Error("failed to close progress store", "err", err)
		}
	}
	logging.Close()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
