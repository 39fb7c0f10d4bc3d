package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/booknav/internal/book"
	"github.com/ziadkadry99/booknav/internal/progress"
)

var bakeCmd = &cobra.Command{
	Use:   "bake",
	Short: "Write a pre-rendered sidebar into every page of the book",
	Long: `Splices a statically computed sidebar into every page of the generated book:
the current chapter is marked and its sections are expanded. No session state
is involved, so no scroll position is restored. Pages are rewritten in place
unless --out names another directory.`,
	RunE: runBake,
}

func init() {
	bakeCmd.Flags().String("out", "", "write baked pages here instead of in place")
	rootCmd.AddCommand(bakeCmd)
}

func runBake(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	markup, err := loadMarkup(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baker := &book.Baker{
		Dir:      cfg.BookDir,
		Out:      out,
		Filter:   book.Filter{Exclude: cfg.Exclude},
		Tag:      cfg.Sidebar.ElementTag,
		Markup:   markup,
		SiteURL:  cfg.SiteURL,
		Reporter: progress.NewReporter(),
		Log:      log,
	}
	res, err := baker.Bake(ctx)
	if err != nil {
		return fmt.Errorf("baking %s: %w", cfg.BookDir, err)
	}

	fmt.Fprintf(os.Stderr, "Baked sidebar into %d pages", res.Pages)
	if res.Skipped > 0 {
		fmt.Fprintf(os.Stderr, " (%d without a <%s> element)", res.Skipped, cfg.Sidebar.ElementTag)
	}
	if res.Assets > 0 {
		fmt.Fprintf(os.Stderr, ", copied %d other files", res.Assets)
	}
	if res.Script {
		fmt.Fprintf(os.Stderr, ", replaced %s", book.GeneratorScript)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}
