package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/booknav/internal/db"
	"github.com/ziadkadry99/booknav/internal/metrics"
	"github.com/ziadkadry99/booknav/internal/server"
	"github.com/ziadkadry99/booknav/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the book with a session-aware sidebar",
	Long: `Serves the generated book over HTTP. Every page gets its sidebar rendered on
the server with the current chapter marked, and the sidebar scroll position is
carried from one page to the next within a browser session.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("memory", false, "keep sessions in memory instead of SQLite")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	inMemory, _ := cmd.Flags().GetBool("memory")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	log := newLogger(cfg)

	markup, err := loadMarkup(cfg)
	if err != nil {
		return err
	}

	var sessions session.Sessions
	if inMemory {
		sessions = session.NewMemorySessions()
	} else {
		database, err := db.Open(cfg.Server.SessionDB)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		sessions = session.NewStore(database)
	}

	srv := server.New(server.Config{
		Port:          cfg.Server.Port,
		BookDir:       cfg.BookDir,
		SiteURL:       cfg.SiteURL,
		Exclude:       cfg.Exclude,
		ElementTag:    cfg.Sidebar.ElementTag,
		ScrollKey:     cfg.Sidebar.ScrollKey,
		SessionCookie: cfg.Server.SessionCookie,
		SessionTTL:    cfg.Server.SessionTTL,
		AllowAll:      cfg.Server.AllowAll,
	}, markup, sessions, metrics.New(), log)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.RunJanitor(ctx)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "booknav %s serving %s on port %d\n", Version, cfg.BookDir, cfg.Server.Port)
	if inMemory {
		fmt.Fprintln(os.Stderr, "  Sessions: in memory")
	} else {
		fmt.Fprintf(os.Stderr, "  Sessions: %s\n", cfg.Server.SessionDB)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
