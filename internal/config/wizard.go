package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// bookLayouts maps marker files to the book output directory and summary
// file a generator conventionally uses next to them.
var bookLayouts = []struct {
	Marker  string
	BookDir string
	Summary string
}{
	{Marker: "book.toml", BookDir: "book", Summary: "src/SUMMARY.md"},
	{Marker: "docs/book.toml", BookDir: "docs/book", Summary: "docs/src/SUMMARY.md"},
	{Marker: "SUMMARY.md", BookDir: "book", Summary: "SUMMARY.md"},
}

// detectBookLayout checks the current directory for a known book layout.
func detectBookLayout() (bookDir, summary string, found bool) {
	for _, layout := range bookLayouts {
		if _, err := os.Stat(layout.Marker); err == nil {
			return layout.BookDir, layout.Summary, true
		}
	}
	d := DefaultConfig()
	return d.BookDir, d.Summary, false
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to booknav! Let's configure the sidebar for your book.")
	fmt.Println()

	bookDir, summary, found := detectBookLayout()
	if found {
		fmt.Printf("Detected book layout: output in %s, summary at %s\n\n", bookDir, summary)
	}

	cfg := DefaultConfig()

	bookPrompt := promptui.Prompt{
		Label:   "Generated book directory",
		Default: bookDir,
	}
	var err error
	if cfg.BookDir, err = bookPrompt.Run(); err != nil {
		return nil, fmt.Errorf("book dir: %w", err)
	}

	summaryPrompt := promptui.Prompt{
		Label:   "Path to SUMMARY.md",
		Default: summary,
	}
	if cfg.Summary, err = summaryPrompt.Run(); err != nil {
		return nil, fmt.Errorf("summary path: %w", err)
	}

	foldPrompt := promptui.Select{
		Label: "Sidebar sections",
		Items: []string{
			"expanded: every section open",
			"folded: nested sections collapsed, with toggles",
		},
	}
	foldIdx, _, err := foldPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("fold selection: %w", err)
	}
	cfg.Sidebar.Fold.Enable = foldIdx == 1

	portPrompt := promptui.Prompt{
		Label:   "Port for booknav serve",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	if _, err := os.Stat(filepath.Clean(cfg.Summary)); err != nil {
		fmt.Printf("\nNote: %s does not exist yet; `booknav render` and `serve` need it.\n", cfg.Summary)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
