package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely/pkg/core"
)

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Create, show, edit and delete notes",
	}
	cmd.AddCommand(newNoteCreateCmd(a), newNoteShowCmd(a), newNoteEditCmd(a), newNoteDeleteCmd(a))
	return cmd
}

// readBody returns the markdown given inline, from a file, or from stdin ("-").
func readBody(cmd *cobra.Command, inline, file string) (string, error) {
	switch file {
	case "":
		return inline, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	default:
		data, err := os.ReadFile(file)
		return string(data), err
	}
}

func newNoteCreateCmd(a *app) *cobra.Command {
	var (
		title    string
		markdown string
		file     string
		tags     []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Long:  `Create a note. Tags are given by id or label; unknown labels are added to the registry.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			body, err := readBody(cmd, markdown, file)
			if err != nil {
				return err
			}
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = finish(cmd.Context(), svc, err) }()

			ctx := a.changeContext(cmd.Context(), "create note "+title)
			resolved, err := resolveTags(ctx, svc, tags, true)
			if err != nil {
				return err
			}
			note, err := svc.CreateNote(ctx, core.NoteData{Title: title, Markdown: body, Tags: resolved})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), note.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&markdown, "markdown", "", "Note body")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the body from a file (- for stdin)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag id or label (repeatable)")
	a.addChangeFlags(cmd)
	return cmd
}

func newNoteShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note with its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close(cmd.Context())

			view, ok := svc.View(args[0])
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			fmt.Fprintf(out, "# %s\n", view.Title)
			if len(view.Tags) > 0 {
				fmt.Fprintf(out, "tags: %s\n", labels(view.Tags))
			}
			fmt.Fprintf(out, "\n%s\n", view.Markdown)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newNoteEditCmd(a *app) *cobra.Command {
	var (
		title    string
		markdown string
		file     string
		tags     []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note",
		Long:  `Replace the fields given as flags; the others keep their current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = finish(cmd.Context(), svc, err) }()

			view, ok := svc.View(args[0])
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			data := core.NoteData{Title: view.Title, Markdown: view.Markdown, Tags: view.Tags}
			if cmd.Flags().Changed("title") {
				data.Title = title
			}
			if cmd.Flags().Changed("markdown") || file != "" {
				if data.Markdown, err = readBody(cmd, markdown, file); err != nil {
					return err
				}
			}

			ctx := a.changeContext(cmd.Context(), "edit note "+data.Title)
			if cmd.Flags().Changed("tag") {
				if data.Tags, err = resolveTags(ctx, svc, tags, true); err != nil {
					return err
				}
			}
			_, err = svc.UpdateNote(ctx, args[0], data)
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&markdown, "markdown", "", "New body")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the new body from a file (- for stdin)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Replace the tags (id or label, repeatable)")
	a.addChangeFlags(cmd)
	return cmd
}

func newNoteDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { err = finish(cmd.Context(), svc, err) }()

			out, err := svc.DeleteNote(a.changeContext(cmd.Context(), "delete note "+args[0]), args[0])
			if err != nil {
				return err
			}
			if out == core.OutcomeMissing {
				a.logger.Warn("note not found, nothing deleted", "id", args[0])
			}
			return nil
		},
	}
	a.addChangeFlags(cmd)
	return cmd
}
