package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/ui"
)

var chempotCmd = &cobra.Command{
	Use:   "chempot <formula>",
	Short: "Chemical potential windows for a stable phase",
	Long: "Reports, per element, the range of chemical potentials over which the\n" +
		"named phase stays on the hull. The formula must match a stable entry.",
	Args: cobra.ExactArgs(1),
	RunE: runChempot,
}

func init() {
	rootCmd.AddCommand(chempotCmd)
}

func runChempot(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	p := ui.New()

	em, err := openEmitter(cfg)
	if err != nil {
		return err
	}
	defer em.Close()

	c, err := comp.Parse(args[0])
	if err != nil {
		return err
	}

	pd, err := loadAndBuild(cfg, em, p)
	if err != nil {
		return err
	}

	for _, e := range pd.StableEntries() {
		if !e.Comp.AlmostEquals(c, pd.Tolerance()) {
			continue
		}
		ranges, err := pd.ChempotRanges(e)
		if err != nil {
			return err
		}
		p.ChempotRanges(e.DisplayName(), ranges, pd.Elements())
		for _, el := range pd.Elements() {
			if r, ok := ranges[el]; ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.6f\t%.6f\n", el, r.Min, r.Max)
			}
		}
		return nil
	}

	return fmt.Errorf("no stable phase matches %q", args[0])
}
