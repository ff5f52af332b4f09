package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/ui"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose <formula>",
	Short: "Resolve a composition into its equilibrium phase mixture",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecompose,
}

func init() {
	rootCmd.AddCommand(decomposeCmd)
}

func runDecompose(cmd *cobra.Command, args []string) error {
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

	d, err := pd.Decompose(c)
	if err != nil {
		return err
	}

	p.Decomposition(c.ReducedFormula(), d)
	for _, portion := range d.Portions {
		fmt.Fprintf(cmd.OutOrStdout(), "%.6f\t%s\n", portion.Amount, portion.Entry.DisplayName())
	}
	return nil
}
