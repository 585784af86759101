// Package main provides the presentor CLI: the storage operations of the
// presentation editor, plus a local HTTP server for the editor shell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/presentor/internal/config"
	"github.com/garyjia/presentor/internal/infrastructure/storage"
	"github.com/garyjia/presentor/pkg/utils"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"
	// Commit is the git commit hash, set at build time via ldflags
	Commit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the dependencies shared by every subcommand
type app struct {
	configPath string
	logLevel   string

	cfg           *config.Config
	logger        *zap.Logger
	fs            afero.Fs
	resolver      *storage.Resolver
	presentations *storage.PresentationRepository
	images        *storage.ImageRepository
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "presentor",
		Short: "Presentor - local presentation and image store",
		Long: `Presentor manages a directory of presentation documents (*.json)
and the images they embed (<root>/images). Every command re-reads the
filesystem; the directory listing is the catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logger.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRootPathCmd(a),
		newListCmd(a),
		newReadCmd(a),
		newSaveCmd(a),
		newDeleteCmd(a),
		newImportImageCmd(a),
		newListImagesCmd(a),
		newDeleteImageCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// init loads configuration and wires the storage components
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.fs = afero.NewOsFs()
	a.resolver = storage.NewResolver(cfg.Storage.AppName, storage.WithRootOverride(cfg.Storage.Root))
	a.presentations = storage.NewPresentationRepository(a.fs, logger)
	a.images = storage.NewImageRepository(a.fs, logger)

	return nil
}

// rootOrDefault returns args[0] when given, otherwise the default storage root
func (a *app) rootOrDefault(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	return a.resolver.DefaultRoot()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		// Skip config loading
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "presentor %s (%s)\n", Version, Commit)
		},
	}
}
