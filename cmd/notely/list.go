package main

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/core"
)

func newListCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		title   string
		tags    []string
		tagGlob string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Long: `List notes whose title contains --title (case-insensitive) and that
carry every --tag. --tag-glob keeps notes with at least one tag label
matching the pattern.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close(cmd.Context())

			q := core.Query{Title: title}
			for _, ref := range tags {
				tag, ok := findTag(svc.Tags(), ref)
				if !ok {
					// An unknown tag matches nothing.
					tag = core.Tag{ID: ref}
				}
				q.Tags = append(q.Tags, tag)
			}
			views := svc.Filter(q)

			if tagGlob != "" {
				matched, err := core.MatchTags(svc.Tags(), tagGlob)
				if err != nil {
					return err
				}
				views = slices.DeleteFunc(views, func(v core.NoteView) bool {
					return !slices.ContainsFunc(v.Tags, func(t core.Tag) bool {
						return slices.ContainsFunc(matched, func(m core.Tag) bool { return m.ID == t.ID })
					})
				})
			}

			summaries := core.Summaries(views)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}
			for _, s := range summaries {
				if len(s.Tags) > 0 {
					fmt.Fprintf(out, "%s - %s [%s]\n", s.ID, s.Title, labels(s.Tags))
				} else {
					fmt.Fprintf(out, "%s - %s\n", s.ID, s.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&title, "title", "", "Filter by title substring")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Require a tag (id or label, repeatable)")
	cmd.Flags().StringVar(&tagGlob, "tag-glob", "", "Require a tag whose label matches a glob (e.g. work/*)")
	return cmd
}
