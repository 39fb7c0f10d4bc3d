package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/booknav/internal/config"
	"github.com/ziadkadry99/booknav/internal/logging"
	"github.com/ziadkadry99/booknav/internal/toc"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `booknav init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger; --verbose wins over log_level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New("booknav", Version, level)
}

// loadMarkup parses the book's SUMMARY.md and renders the sidebar markup
// shared by every page.
func loadMarkup(cfg *config.Config) (string, error) {
	tree, err := toc.LoadSummary(cfg.Summary)
	if err != nil {
		return "", fmt.Errorf("loading summary: %w", err)
	}
	markup, err := toc.Render(tree, toc.RenderOptions{
		Fold: toc.FoldOptions{
			Enable: cfg.Sidebar.Fold.Enable,
			Level:  cfg.Sidebar.Fold.Level,
		},
	})
	if err != nil {
		return "", err
	}
	return markup, nil
}
