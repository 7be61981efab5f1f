package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"callforscience/i18n"
	"callforscience/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the card grid, the CSV proxy and the listings API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.HTTPAddr = serveAddr
		}

		bundle, err := i18n.Default(cfg.DefaultLang)
		if err != nil {
			return err
		}
		srv, err := server.New(cfg, newSource(), bundle, logger)
		if err != nil {
			return err
		}

		httpSrv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      cfg.FetchTimeout + 15*time.Second,
			IdleTimeout:       60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("=== Call For Science listening on %s (source: %s) ===", cfg.HTTPAddr, cfg.SourceURL)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.Info("Shutting down HTTP server")
			return httpSrv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default from HTTP_ADDR/PORT)")
}
