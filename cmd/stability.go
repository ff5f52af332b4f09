package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/phase"
	"github.com/CifLord/phasehull/internal/ui"
)

var stabilityCmd = &cobra.Command{
	Use:   "stability <formula> <energy>",
	Short: "Check whether a candidate phase is stable",
	Long: "Builds the hull from the catalog and reports how far the candidate\n" +
		"(total energy for the formula's atom count) sits above it.",
	Args: cobra.ExactArgs(2),
	RunE: runStability,
}

func init() {
	rootCmd.AddCommand(stabilityCmd)
}

func runStability(cmd *cobra.Command, args []string) error {
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
	energy, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing energy %q: %w", args[1], err)
	}

	pd, err := loadAndBuild(cfg, em, p)
	if err != nil {
		return err
	}

	candidate := phase.Entry{Comp: c, Energy: energy, Kind: phase.KindComputed}
	eah, err := pd.EAboveHull(candidate)
	if err != nil {
		return err
	}

	if eah <= 0 && pd.IsStable(candidate) {
		p.Stable(candidate.DisplayName())
	} else {
		p.Unstable(candidate.DisplayName(), eah)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", eah)
	return nil
}
