package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gitissue/internal/config"
	"gitissue/internal/gitx"
	"gitissue/internal/tracker"
	"gitissue/internal/tracker/dirstore"

	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use, so commands that
// never touch the repository (init, help) do not require one.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	Path         string
	StrictCompat bool
	Verbosity    int
	Quiet        bool
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a fake-backed App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{app: app}
}

func (p *AppProvider) init() (*App, error) {
	start := p.Path
	if start == "" {
		var err error
		start, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}
	issuesDir, err := tracker.Discover(start)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(filepath.Join(issuesDir, "config.yml"))
	if err != nil {
		return nil, err
	}

	repo, err := gitx.Open(issuesDir)
	if err != nil {
		return nil, err
	}

	t := tracker.New(dirstore.New(issuesDir), gitx.NewTransaction(repo), tracker.Options{
		StrictCompat:  cfg.StrictCompat || p.StrictCompat,
		ShortIDLength: cfg.ID.ShortLength,
	})

	return &App{
		Tracker:   t,
		Config:    cfg,
		IssuesDir: issuesDir,
		Out:       os.Stdout,
		Err:       os.Stderr,
	}, nil
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{}
	return newRootCmd(provider).Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gi",
		Short: "A distributed issue tracker backed by git",
		Long: `git-issue keeps issues as plain files inside a .issues directory and
records every change as a git commit. Each issue is a directory of
property files, so the full history travels with the repository and
merges like any other content.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(provider.Verbosity, provider.Quiet)
		},
	}

	rootCmd.PersistentFlags().StringVar(&provider.Path, "path", "", "Directory to search for the issues repository (default: cwd)")
	rootCmd.PersistentFlags().BoolVar(&provider.StrictCompat, "strict-compat", false, "Force strict-compatibility commit messages")
	rootCmd.PersistentFlags().CountVarP(&provider.Verbosity, "verbose", "v", "Increase logging (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&provider.Quiet, "quiet", "q", false, "Log errors only")

	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newNewCmd(provider))
	rootCmd.AddCommand(newShowCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newTagCmd(provider))
	rootCmd.AddCommand(newCloseCmd(provider))
	rootCmd.AddCommand(newReopenCmd(provider))
	rootCmd.AddCommand(newMilestoneCmd(provider))
	rootCmd.AddCommand(newValidateCmd(provider))

	return rootCmd
}

// configureLogging installs the process-wide slog handler. Verbosity
// changes what gets logged, never what the engine does.
func configureLogging(verbosity int, quiet bool) {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
