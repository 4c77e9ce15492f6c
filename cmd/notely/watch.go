package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/adapters/lifecycle"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print notebook changes as they happen",
		Long:  `Watch the store for changes made by other processes and print each reload.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, _, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer svc.Close(cmd.Context())

			src := lifecycle.NewSource(svc)
			if err := src.Start(ctx); err != nil {
				return err
			}
			if err := svc.WatchStore(ctx); err != nil {
				return err
			}

			a.logger.Info("watching notebook", "notes", len(svc.Notes()), "tags", len(svc.Tags()))
			for e := range src.Events() {
				fmt.Fprintln(cmd.OutOrStdout(), e.String())
			}
			return nil
		},
	}
}
