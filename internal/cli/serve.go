package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(opts *options) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.log

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := opts.open()
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer func() {
				if err := application.Close(); err != nil {
					log.Error("app: close failed", "err", err)
				}
			}()

			if migrate {
				applied, err := application.Migrate()
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				log.Info("db: migrations applied", "count", applied)
			}

			srv := application.HTTPServer()
			log.Info("http: listening", "addr", srv.Addr)

			serverErrCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErrCh <- err
				}
				close(serverErrCh)
			}()

			var serveErr error
			select {
			case <-ctx.Done():
				log.Info("app: shutdown signal received")
			case err := <-serverErrCh:
				if err != nil {
					log.Critical("http: server failed", "addr", srv.Addr, "err", err)
					serveErr = err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http: graceful shutdown failed", "err", err)
				if serveErr == nil {
					serveErr = err
				}
			}

			if serveErr == nil {
				log.Info("app: stopped")
			}
			return serveErr
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}
