package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/wtt/internal/config"
	"github.com/raphi011/wtt/internal/git"
	"github.com/raphi011/wtt/internal/log"
	"github.com/raphi011/wtt/internal/ui"
	"github.com/raphi011/wtt/internal/worktree"
)

var (
	// Global flags
	verbose bool
	cwdFile string
	theme   string
)

// rootCmd is the whole program: wtt has no subcommands, running it
// opens the dashboard.
var rootCmd = &cobra.Command{
	Use:   "wtt",
	Short: "Interactive git worktree dashboard",
	Long: `wtt shows every worktree of the current repository in an interactive
dashboard: branch, dirty state, ahead/behind counts and recent commits,
refreshed in the background while a cached snapshot paints instantly.

Press enter on a worktree to print its path (or write it to --cwd-file
for a shell wrapper to cd into).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return git.CheckGit()
	},
	RunE: runDashboard,
}

func runDashboard(cobraCmd *cobra.Command, args []string) error {
	ctx := cobraCmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	repo, err := git.Open(ctx, cwd)
	if err != nil {
		return fmt.Errorf("not a git repository: %s", cwd)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if theme != "" {
		cfg.Theme = theme
	}

	ctx = log.WithLogger(ctx, newLogger())

	// The UI renders to stderr so that the selected path is the only
	// thing on stdout. A pipe on stderr means no terminal to draw on.
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return errors.New("stderr is not a terminal")
	}

	m := ui.New(ctx, repo, cwd, cfg, worktree.NewFetcher())

	profile := colorprofile.Detect(os.Stderr, os.Environ())
	p := tea.NewProgram(m,
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}

	if sel := m.Selection(); sel != "" {
		return emitSelection(sel)
	}
	return nil
}

// emitSelection hands the chosen path to the caller. With --cwd-file
// the path is written there for a shell function to source; otherwise
// it goes to stdout.
func emitSelection(path string) error {
	if cwdFile == "" {
		fmt.Println(path)
		return nil
	}
	if err := os.WriteFile(cwdFile, []byte(path+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write cwd file: %w", err)
	}
	return nil
}

// newLogger sends diagnostics to a log file when --verbose is set.
// Logging to stderr would fight the dashboard for the terminal.
func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, false)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return log.New(io.Discard, false)
	}
	path := filepath.Join(dir, "wtt", "wtt.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard, false)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(io.Discard, false)
	}
	return log.New(f, true)
}

// Execute runs the root command with signal-aware context.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log external commands to the wtt log file")
	rootCmd.Flags().StringVar(&cwdFile, "cwd-file", "", "Write the selected worktree path to this file instead of stdout")
	rootCmd.Flags().StringVar(&theme, "theme", "", "Color theme (overrides the config file)")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}
