package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/booknav/internal/sidebar"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the sidebar for one page view",
	Long: `Mounts the sidebar for the page at --location with an empty session and
prints the resulting panel markup, or a JSON summary with --json.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("location", "", "URL of the page being viewed (required)")
	renderCmd.Flags().String("path-to-root", "", "relative prefix from the page back to the book root")
	renderCmd.Flags().Bool("json", false, "output a JSON summary")
	_ = renderCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(renderCmd)
}

// renderOutput is the --json shape.
type renderOutput struct {
	Active       string   `json:"active"`
	Expanded     int      `json:"expanded"`
	Links        int      `json:"links"`
	Toggles      int      `json:"toggles"`
	Restore      string   `json:"restore"`
	CenterActive bool     `json:"center_active"`
	Hrefs        []string `json:"hrefs"`
	HTML         string   `json:"html"`
}

func runRender(cmd *cobra.Command, args []string) error {
	location, _ := cmd.Flags().GetString("location")
	pathToRoot, _ := cmd.Flags().GetString("path-to-root")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	markup, err := loadMarkup(cfg)
	if err != nil {
		return err
	}

	ctrl := sidebar.New(markup, sidebar.Config{
		PathToRoot: pathToRoot,
		ScrollKey:  cfg.Sidebar.ScrollKey,
	}, sidebar.NewMemoryStore(), log)
	panel, err := ctrl.Mount(context.Background(), location)
	if err != nil {
		return fmt.Errorf("mounting sidebar: %w", err)
	}

	html, err := panel.HTML()
	if err != nil {
		return err
	}
	if !jsonOutput {
		fmt.Println(html)
		return nil
	}

	out := renderOutput{
		Active:       panel.ActiveHref(),
		Expanded:     len(panel.Expanded()),
		Links:        len(panel.Links()),
		Toggles:      len(panel.Toggles()),
		Restore:      panel.Restore().String(),
		CenterActive: panel.CenterActive(),
		Hrefs:        sidebar.Hrefs(panel.Links()),
		HTML:         html,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
