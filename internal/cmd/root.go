// Package cmd implements the CLI commands for brewguide.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/brewguide/internal/config"
	"github.com/alexander-akhmetov/brewguide/internal/debug"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
	"github.com/alexander-akhmetov/brewguide/internal/git"
	"github.com/alexander-akhmetov/brewguide/internal/recipe"
	"github.com/alexander-akhmetov/brewguide/internal/store"
	"github.com/alexander-akhmetov/brewguide/internal/timing"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func versionString() string {
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

// rootOptions holds persistent flags shared by every command.
type rootOptions struct {
	storePath      string
	tickIntervalMS int
}

// NewRootCmd builds the brewguide command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "brewguide",
		Short: "Step-by-step coffee brewing guide and tasting journal",
		Long: `Brewguide walks you through a coffee recipe one step at a time with a
running timer, records each brew, and keeps a tasting journal.`,
		Version:      versionString(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.storePath, "store", "", "Journal store file (default: <state dir>/store.json)")
	root.PersistentFlags().IntVar(&opts.tickIntervalMS, "tick-interval-ms", 0, "Session tick period in milliseconds")

	root.AddCommand(newGuideCmd(opts))
	root.AddCommand(newRecipesCmd(opts))
	root.AddCommand(newRecipeCmd(opts))
	root.AddCommand(newRecognizeCmd(opts))
	root.AddCommand(newRecordsCmd(opts))
	root.AddCommand(newTasteCmd(opts))
	root.AddCommand(newTastingsCmd(opts))
	root.AddCommand(newProfileCmd(opts))
	root.AddCommand(newBeansCmd(opts))
	root.AddCommand(newPrefsCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newLogsCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// env is what a command needs from configuration.
type env struct {
	cfg *config.Config
	out io.Writer
}

func loadEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyCLIFlags(opts.tickIntervalMS, opts.storePath)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	timing.Mark("config loaded")
	return &env{cfg: cfg, out: cmd.OutOrStdout()}, nil
}

// openStore opens the journal, committing every write to git when
// journal.auto_commit is set and the store lives inside a repository.
func (e *env) openStore() (*store.Store, error) {
	path := e.cfg.ResolvedStorePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	var opts []store.Option
	if e.cfg.Journal.AutoCommit {
		if repo, err := git.Open(filepath.Dir(path)); err == nil {
			opts = append(opts, store.WithCommitter(git.NewJournal(repo)))
			debug.Logf("cmd: journal auto-commit to %s", repo.Root())
		} else {
			debug.Logf("cmd: journal auto-commit disabled: %v", err)
		}
	}
	s, err := store.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	timing.Mark("store opened")
	return s, nil
}

// openJournal loads the environment and opens the store in one step.
func openJournal(cmd *cobra.Command, opts *rootOptions) (*env, *store.Store, error) {
	e, err := loadEnv(cmd, opts)
	if err != nil {
		return nil, nil, err
	}
	s, err := e.openStore()
	if err != nil {
		return nil, nil, err
	}
	return e, s, nil
}

func (e *env) catalog() (*recipe.Catalog, error) {
	c, err := recipe.Load(e.cfg.ResolvedRecipesDir())
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	timing.Mark("recipes loaded")
	return c, nil
}

// ensureUser creates the local profile on first launch.
func (e *env) ensureUser(s *store.Store) (domain.User, error) {
	first, err := s.FirstLaunch()
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.User()
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return u, err
	}
	u = domain.User{
		ID:        e.cfg.UserID,
		Username:  e.cfg.UserID,
		Level:     domain.LevelFor(0),
		CreatedAt: time.Now(),
	}
	if err := s.SaveUser(u); err != nil {
		return u, err
	}
	if first {
		fmt.Fprintf(e.out, "Welcome to brewguide, %s! Your journal lives at %s\n\n", u.Username, s.Path())
	}
	return u, nil
}
