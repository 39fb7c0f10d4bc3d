package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/booknav/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize booknav configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure booknav for your book and writes the config file (.booknav.yml unless --config says otherwise).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
