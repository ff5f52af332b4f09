package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/store"
	"github.com/CifLord/phasehull/internal/ui"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage the persistent entry store",
}

var entriesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the catalog into the entry store",
	RunE:  runEntriesImport,
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored entries",
	RunE:  runEntriesList,
}

var entriesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named entry from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntriesRemove,
}

func init() {
	entriesListCmd.Flags().StringSlice("system", nil, "restrict to a chemical system, e.g. --system Li,Fe,O")
	entriesCmd.AddCommand(entriesImportCmd, entriesListCmd, entriesRemoveCmd)
	rootCmd.AddCommand(entriesCmd)
}

func runEntriesImport(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	p := ui.New()

	entries, err := loadEntries(cfg)
	if err != nil {
		return err
	}

	s, err := store.Open(cmd.Context(), cfg.StorePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.AddAll(cmd.Context(), entries); err != nil {
		return err
	}

	p.ImportDone(len(entries), cfg.StorePath)
	return nil
}

func runEntriesList(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	p := ui.New()

	s, err := store.Open(cmd.Context(), cfg.StorePath)
	if err != nil {
		return err
	}
	defer s.Close()

	system, _ := cmd.Flags().GetStringSlice("system")

	entries, err := s.All(cmd.Context())
	if err != nil {
		return err
	}
	if len(system) > 0 {
		entries, err = s.InSystem(cmd.Context(), system)
		if err != nil {
			return err
		}
		p.SystemHeader(system)
	}

	p.EntryList(entries)
	fmt.Fprintf(cmd.OutOrStdout(), "%d entries\n", len(entries))
	return nil
}

func runEntriesRemove(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	s, err := store.Open(cmd.Context(), cfg.StorePath)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Remove(cmd.Context(), args[0])
}
