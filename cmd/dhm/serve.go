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
	"github.com/ukaji3/dhm-go/pkg/dhm/report"
	"github.com/ukaji3/dhm-go/pkg/dhm/server"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		generate bool
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "serve [input.json]",
		Short: "Serve the tree over a read-only JSON API",
		Long: `serve exposes the tree for dashboards:

  GET /api/tree                 full tree
  GET /api/stats                node and metric counts
  GET /api/outline              navigation outline
  GET /api/node?path=A/B        one node with metric cards
  GET /api/metrics?q=keyword    metric cards matching keyword
  GET /api/metrics/pick?q=kw    first match, else the first metric

Paths join indicator names with /. Inside a name, / is written ~1 and ~ is
written ~0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}

			roots, err := loadTree(cmd, args[0], generate, seed)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(roots, report.NewDirection(cfg.LowerIsBetter), logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Serving", zap.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("Shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&generate, "generate", false, "Regenerate series before serving")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed used with --generate")
	return cmd
}
