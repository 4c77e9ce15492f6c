package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/internal/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the notebook over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, cfg, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer func() { err = finish(cmd.Context(), svc, err) }()

			if watch {
				if err := svc.WatchStore(ctx); err != nil {
					a.logger.Warn("store changes made elsewhere will not be picked up", "error", err)
				}
			}
			if addr == "" {
				addr = cfg.HTTP.Addr
			}

			a.logger.Info("serving notebook", "addr", addr, "adapter", cfg.Adapter)
			return httpapi.Serve(ctx, httpapi.New(svc, a.logger), addr, cfg.HTTP.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from notely.yaml, :8080)")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload when the store changes outside this process")
	return cmd
}
