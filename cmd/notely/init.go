package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely"
	"github.com/aretw0/notely/internal/config"
	"github.com/aretw0/notely/internal/platform"
)

func newInitCmd(a *app) *cobra.Command {
	var versioning bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a notebook",
		Long: `Initialize a notebook in dir (default: the current directory).
It writes notely.yaml and prepares the store; with --versioning the
directory becomes a git repository and every change is committed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.dir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = cwd
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}

			cfgPath := filepath.Join(dir, platform.ConfigFileName)
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			_, statErr := os.Stat(cfgPath)
			fresh := errors.Is(statErr, os.ErrNotExist)
			if fresh {
				cfg.Path = dir
			}
			if a.adapter != "" {
				cfg.Adapter = a.adapter
			}
			if cmd.Flags().Changed("versioning") {
				cfg.Versioning = &versioning
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if fresh {
				file := cfg
				file.Path = "."
				if err := config.Write(cfgPath, file); err != nil {
					return err
				}
			}

			opts := append(cfg.Options(), notely.WithAutoInit(true), notely.WithLogger(a.logger))
			svc, err := notely.New(cmd.Context(), cfg.URI(), opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize notebook: %w", err)
			}
			if err := svc.Close(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized notely notebook in", dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&versioning, "versioning", false, "Version the notebook with git")
	return cmd
}
