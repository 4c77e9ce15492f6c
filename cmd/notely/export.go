package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/adapters/markdown"
	"github.com/aretw0/notely/pkg/core"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every note as <id>.md with YAML frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close(cmd.Context())

			n, err := markdown.Export(args[0], svc.Views())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", n, args[0])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Create a note from every .md file in dir",
		Long: `Create a note from every .md file in dir. The frontmatter title and
tag labels are used; unknown labels are added to the registry. Imported
notes always get new ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			docs, err := markdown.ReadDir(args[0])
			if err != nil {
				return err
			}
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = finish(cmd.Context(), svc, err) }()

			ctx := a.changeContext(cmd.Context(), "import notes from "+args[0])
			for _, doc := range docs {
				tags, err := resolveTags(ctx, svc, doc.Tags, true)
				if err != nil {
					return fmt.Errorf("%s: %w", doc.ID, err)
				}
				if _, err := svc.CreateNote(ctx, core.NoteData{Title: doc.Title, Markdown: doc.Body, Tags: tags}); err != nil {
					return fmt.Errorf("%s: %w", doc.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes\n", len(docs))
			return nil
		},
	}
	a.addChangeFlags(cmd)
	return cmd
}
