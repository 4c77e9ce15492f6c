package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/core"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage the tag registry",
	}
	cmd.AddCommand(newTagAddCmd(a), newTagRenameCmd(a), newTagDeleteCmd(a), newTagListCmd(a))
	return cmd
}

func newTagAddCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = finish(cmd.Context(), svc, err) }()

			ctx := a.changeContext(cmd.Context(), "add tag "+args[0])
			tag := core.Tag{ID: id, Label: args[0]}
			if id == "" {
				tag, err = svc.NewTag(ctx, args[0])
			} else {
				_, err = svc.AddTag(ctx, tag)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Explicit tag id (generated when empty)")
	a.addChangeFlags(cmd)
	return cmd
}

func newTagRenameCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <id|label> <new-label>",
		Short: "Relabel a tag on every note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = finish(cmd.Context(), svc, err) }()

			tag, ok := findTag(svc.Tags(), args[0])
			if !ok {
				return fmt.Errorf("unknown tag %q", args[0])
			}
			_, err = svc.UpdateTag(a.changeContext(cmd.Context(), "rename tag "+tag.Label), tag.ID, args[1])
			return err
		},
	}
	a.addChangeFlags(cmd)
	return cmd
}

func newTagDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id|label>",
		Short: "Remove a tag from the registry",
		Long:  `Remove a tag. Notes keep the id, but it no longer shows on them.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = finish(cmd.Context(), svc, err) }()

			tag, ok := findTag(svc.Tags(), args[0])
			if !ok {
				a.logger.Warn("tag not found, nothing deleted", "tag", args[0])
				return nil
			}
			_, err = svc.DeleteTag(a.changeContext(cmd.Context(), "delete tag "+tag.Label), tag.ID)
			return err
		},
	}
	a.addChangeFlags(cmd)
	return cmd
}

func newTagListCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		glob   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close(cmd.Context())

			tags := svc.Tags()
			if glob != "" {
				if tags, err = core.MatchTags(tags, glob); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if asJSON {
				if tags == nil {
					tags = []core.Tag{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tags)
			}
			for _, t := range tags {
				fmt.Fprintf(out, "%s\t%s\n", t.ID, t.Label)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&glob, "glob", "", "Only labels matching a glob")
	return cmd
}
