package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/adapters/fs"
	"github.com/aretw0/notely/pkg/core"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history [notes|tags]",
		Short: "Show the commits of a versioned notebook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := core.NotesKey
			if len(args) == 1 {
				switch strings.ToLower(args[0]) {
				case "notes":
				case "tags":
					key = core.TagsKey
				default:
					return fmt.Errorf("unknown collection %q", args[0])
				}
			}

			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close(cmd.Context())

			store, ok := svc.Store().(*fs.Store)
			if !ok {
				return errors.New("history is only available for the fs adapter")
			}
			entries, err := store.History(cmd.Context(), key)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
			return nil
		},
	}
}
