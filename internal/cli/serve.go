package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/youruser/tagstamp/internal/api"
	"github.com/youruser/tagstamp/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var addr, rosterPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the watermark HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			a, err := newApp(ctx, g.cfg, false, rosterPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if !g.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			if addr == "" {
				addr = g.cfg.Server.Addr
			}
			router := api.NewRouter(&api.Server{
				Stamper: a.stamper,
				Loader:  a.loader,
				Agents:  a.agents,
				Variant: a.variant,
			}, logger)
			srv := &http.Server{Addr: addr, Handler: router}

			errc := make(chan error, 1)
			go func() {
				logger.Info("starting server", "addr", addr, "variant", a.variant.Name(), "agents", len(a.agents))
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, PORT overrides)")
	cmd.Flags().StringVar(&rosterPath, "roster", "", "agent roster CSV")
	return cmd
}
