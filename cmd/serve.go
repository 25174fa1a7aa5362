package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cash-tally/httpapi"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tally over a JSON HTTP API",
		Long: `Starts an HTTP server holding a single tally for the lifetime of the
process. Stop it with Ctrl-C; in-flight requests are allowed to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.ListenAddr = addr
			}

			service, err := c.newTallyService()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              c.cfg.ListenAddr,
				Handler:           httpapi.NewRouter(service, c.logger),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Serving tally %s on %s\n", service.TallyID(), srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			c.logger.Info("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("http server shutdown failed: %w", err)
			}
			return nil
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (env CASHTALLY_ADDR, default :8080)")
	return serveCmd
}
