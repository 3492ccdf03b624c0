// Package config loads the wtt configuration from
// ~/.config/wtt/config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ValidSortOrders lists the accepted values for the sort field.
var ValidSortOrders = []string{"name", "status", "recent"}

// ValidThemeNames lists the accepted values for the theme field.
var ValidThemeNames = []string{"default", "dracula", "nord", "gruvbox"}

// Config holds the wtt configuration.
type Config struct {
	// Theme selects the color scheme.
	Theme string `toml:"theme"`
	// WorktreeDir is the base directory for new worktrees. Empty means
	// a "<repo>-worktrees" sibling of the main repository.
	WorktreeDir string `toml:"worktree_dir"`
	// ShowRecentCommits controls whether the commit panel starts open.
	ShowRecentCommits bool `toml:"show_recent_commits"`
	// Sort is the initial sort order: "name", "status" or "recent".
	Sort string `toml:"sort"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Theme:             "default",
		ShowRecentCommits: true,
		Sort:              "name",
	}
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wtt", "config.toml"), nil
}

// Load reads config from ~/.config/wtt/config.toml.
// Returns Default() if the file doesn't exist (no error).
// Returns Default() plus an error if the file exists but is invalid.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate worktree_dir (must be absolute or start with ~)
	if err := validatePath(cfg.WorktreeDir, "worktree_dir"); err != nil {
		return Default(), err
	}

	// Expand ~ (shell doesn't expand in config files)
	if cfg.WorktreeDir != "" {
		expanded, err := expandPath(cfg.WorktreeDir)
		if err != nil {
			return Default(), fmt.Errorf("expand worktree_dir: %w", err)
		}
		cfg.WorktreeDir = expanded
	}

	if !contains(ValidSortOrders, cfg.Sort) {
		return Default(), fmt.Errorf("invalid sort %q: must be one of %v", cfg.Sort, ValidSortOrders)
	}
	if !contains(ValidThemeNames, cfg.Theme) {
		return Default(), fmt.Errorf("invalid theme %q: must be one of %v", cfg.Theme, ValidThemeNames)
	}

	return cfg, nil
}

// validatePath checks that the path is absolute or starts with ~.
// Relative paths like "." or ".." depend on where wtt was started.
func validatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

func contains(valid []string, v string) bool {
	for _, s := range valid {
		if s == v {
			return true
		}
	}
	return false
}
