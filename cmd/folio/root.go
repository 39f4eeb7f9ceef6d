package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/internal/config"
	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/workspace"
)

var (
	verbose  bool
	rootPath string
	cfg      *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "A note store for Markdown files with YAML front-matter",
	Long: `Folio keeps a directory of Markdown notes, one file per note,
with metadata in a YAML front-matter block.

The workspace root is taken from --root, then FOLIO_ROOT, then the nearest
parent directory holding a .folio folder, then ~/Documents/MyNotes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "Workspace root directory")
}

// resolveRoot picks the workspace root for this invocation.
func resolveRoot() (string, error) {
	if rootPath != "" {
		return rootPath, nil
	}
	if cfg != nil && cfg.Root != "" {
		return cfg.Root, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	found, err := platform.FindRoot(wd, fs.DefaultSystemDir)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, platform.ErrRootNotFound) {
		return "", err
	}
	return platform.DefaultRoot()
}

// openStore returns the filesystem store of the resolved root.
func openStore(ctx context.Context, opts ...platform.Option) (*fs.Store, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}

	opts = append([]platform.Option{platform.WithLogger(slog.Default())}, opts...)
	repo, err := platform.Init(ctx, root, opts...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	store, ok := repo.(*fs.Store)
	if !ok {
		return nil, fmt.Errorf("unexpected store type %T", repo)
	}
	return store, nil
}

func withMustExist() platform.Option {
	return platform.WithMustExist(true)
}

// openWorkspace returns a loaded workspace over the resolved root.
func openWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	return platform.Open(ctx, root, platform.WithLogger(slog.Default()))
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
