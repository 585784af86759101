package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/garyjia/presentor/internal/infrastructure/storage"
	apihttp "github.com/garyjia/presentor/internal/interfaces/http"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the storage operations over a local HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			apihttp.Version = Version

			deps := apihttp.Dependencies{
				Presentations: a.presentations,
				Images:        a.images,
				Resolver:      a.resolver,
			}

			g, gctx := errgroup.WithContext(ctx)

			if a.cfg.Watcher.Enabled {
				root, err := a.resolver.DefaultRoot()
				if err != nil {
					return err
				}
				watcher, err := storage.NewWatcher(root, storage.NewBootstrap(a.fs, a.logger), a.cfg.Watcher.Debounce, a.logger)
				if err != nil {
					return err
				}
				defer watcher.Stop()
				if err := watcher.Start(gctx); err != nil {
					return err
				}
				deps.Watcher = watcher

				// Release the watcher as soon as the server exits for any reason
				g.Go(func() error {
					<-gctx.Done()
					watcher.Stop()
					return nil
				})
			}

			server := apihttp.NewServer(apihttp.ServerConfig{
				Host:         a.cfg.Server.Host,
				Port:         a.cfg.Server.Port,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}, deps, apihttp.NewZapLogger(a.logger))

			a.logger.Info("Starting presentor",
				zap.String("version", Version),
				zap.String("address", server.Address()))

			g.Go(func() error {
				if err := server.Start(gctx); err != nil {
					return err
				}
				// Clean shutdown; unblock the other goroutines too
				return context.Canceled
			})
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [root]",
		Short: "Print document and image changes as JSON lines until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, err := a.rootOrDefault(args)
			if err != nil {
				return err
			}

			watcher, err := storage.NewWatcher(root, storage.NewBootstrap(a.fs, a.logger), a.cfg.Watcher.Debounce, a.logger)
			if err != nil {
				return err
			}
			defer watcher.Stop()

			events, cancel := watcher.Subscribe()
			defer cancel()
			if err := watcher.Start(ctx); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					if err := enc.Encode(ev); err != nil {
						return err
					}
				}
			}
		},
	}
}
