package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/tui"
	"github.com/CifLord/phasehull/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the hull interactively",
	Long:  "Builds the hull from the catalog and opens an interactive stability browser.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	p := ui.New()

	em, err := openEmitter(cfg)
	if err != nil {
		return err
	}
	defer em.Close()

	pd, err := loadAndBuild(cfg, em, p)
	if err != nil {
		return err
	}

	return tui.Run(pd)
}
