package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "booknav",
	Short: "Server-rendered, session-aware sidebar for generated books",
	Long: `booknav renders the table-of-contents sidebar of a generated book from its
SUMMARY.md, marks the current chapter, expands the sections leading to it and
restores the sidebar scroll position across page navigations within a
browsing session.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".booknav.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
