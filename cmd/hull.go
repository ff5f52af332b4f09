package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/report"
	"github.com/CifLord/phasehull/internal/ui"
)

var hullCmd = &cobra.Command{
	Use:   "hull",
	Short: "Build the convex hull and print a report",
	Long: "Reads the entry catalog, builds the lower convex hull, and renders it\n" +
		"in the requested format (" + strings.Join(report.FormatNames(), ", ") + ").",
	RunE: runHull,
}

func init() {
	hullCmd.Flags().StringP("format", "f", "summary", "report format: "+strings.Join(report.FormatNames(), ", "))
	rootCmd.AddCommand(hullCmd)
}

func runHull(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	p := ui.New()

	em, err := openEmitter(cfg)
	if err != nil {
		return err
	}
	defer em.Close()

	name, _ := cmd.Flags().GetString("format")
	format, err := report.FormatByName(name)
	if err != nil {
		return err
	}

	pd, err := loadAndBuild(cfg, em, p)
	if err != nil {
		return err
	}

	out, err := format.Render(pd)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
