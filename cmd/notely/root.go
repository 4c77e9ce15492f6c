package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notely"
	"github.com/aretw0/notely/internal/config"
	"github.com/aretw0/notely/internal/platform"
	"github.com/aretw0/notely/pkg/core"
	"github.com/aretw0/notely/pkg/git"
)

// app carries the global flags and the logger shared by every command.
type app struct {
	verbose    bool
	adapter    string
	dir        string
	configPath string
	logger     *slog.Logger

	// change reason flags of mutating commands
	message    string
	commitType string
	scope      string
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:   "notely",
		Short: "Markdown notes with a flat tag registry",
		Long: `notely keeps free-text markdown notes and a registry of tags.
Notes reference tags by id, so renaming a tag shows up on every note.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.logger)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.adapter, "adapter", "", "Storage adapter (fs, memory, redis, sqlite, badger)")
	flags.StringVarP(&a.dir, "dir", "C", "", "Store location (defaults to the nearest notely root)")
	flags.StringVar(&a.configPath, "config", "", "Path to notely.yaml")

	rootCmd.AddCommand(
		newInitCmd(a),
		newNoteCmd(a),
		newListCmd(a),
		newTagCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig resolves notely.yaml (explicit, or found upwards from the
// working directory) and applies the command line overrides.
func (a *app) loadConfig() (config.Config, error) {
	path := a.configPath
	root := ""
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return config.Config{}, err
		}
		root, err = platform.FindRoot(cwd)
		if errors.Is(err, platform.ErrRootNotFound) {
			root = cwd
		} else if err != nil {
			return config.Config{}, err
		}
		path = filepath.Join(root, platform.ConfigFileName)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); statErr != nil && root != "" {
		cfg.Path = root
	}
	if a.adapter != "" {
		cfg.Adapter = a.adapter
	}
	if a.dir != "" {
		cfg.Path = a.dir
		if cfg.Adapter == platform.AdapterRedis {
			cfg.Redis.URL = a.dir
		}
	}
	return cfg, cfg.Validate()
}

// open loads the notebook described by the configuration.
func (a *app) open(ctx context.Context, extra ...notely.Option) (*notely.Service, config.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	opts := append(cfg.Options(),
		notely.WithLogger(a.logger),
		notely.WithErrorHandler(func(err error) {
			a.logger.Error("background error", "error", err)
		}),
	)
	opts = append(opts, extra...)
	svc, err := notely.New(ctx, cfg.URI(), opts...)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to open notebook: %w", err)
	}
	return svc, cfg, nil
}

// addChangeFlags registers the flags that describe a mutation for versioned stores.
func (a *app) addChangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.message, "message", "m", "", "Change reason (commit message)")
	cmd.Flags().StringVarP(&a.commitType, "type", "t", "", "Change type (feat, fix, docs, ...)")
	cmd.Flags().StringVar(&a.scope, "scope", "", "Change scope")
}

// changeContext attaches the change reason built from the flags, if any.
func (a *app) changeContext(ctx context.Context, subject string) context.Context {
	var msg string
	switch {
	case a.commitType != "":
		if a.message != "" {
			subject = a.message
		}
		msg = git.FormatMessage(a.commitType, a.scope, subject, "")
	case a.message != "":
		msg = git.AppendFooter(a.message)
	default:
		return ctx
	}
	return context.WithValue(ctx, core.ChangeReasonKey, msg)
}

// finish flushes and closes the notebook, reporting the first failure.
func finish(ctx context.Context, svc *notely.Service, err error) error {
	if cerr := svc.Close(ctx); cerr != nil && err == nil {
		return fmt.Errorf("failed to persist notebook: %w", cerr)
	}
	return err
}
