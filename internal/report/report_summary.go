package report

import (
	"fmt"
	"strings"

	"github.com/CifLord/phasehull/internal/phase"
)

// SummaryReport renders a compact markdown overview of the diagram: the
// chemical system, the stable phases, and the hull facets.
type SummaryReport struct{}

// Render produces a markdown summary of the diagram.
func (r *SummaryReport) Render(pd *phase.PhaseDiagram) (string, error) {
	if pd == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Phase diagram: %s\n", strings.Join(pd.Elements(), "-")))
	b.WriteString(fmt.Sprintf("\n%d entries, %d stable phases, %d hull facets\n",
		len(pd.Entries()), len(pd.StableEntries()), len(pd.Facets())))

	b.WriteString("\n## Stable phases\n")
	for _, e := range pd.StableEntries() {
		ef, err := pd.FormationEnergy(e)
		if err != nil {
			return "", fmt.Errorf("formation energy for %s: %w", e.DisplayName(), err)
		}
		b.WriteString(fmt.Sprintf("- %s (%.4f per atom)\n", e.DisplayName(), ef))
	}

	b.WriteString("\n## Facets\n")
	for _, f := range pd.Facets() {
		names := make([]string, len(f.Entries))
		for i, e := range f.Entries {
			names[i] = e.DisplayName()
		}
		b.WriteString(fmt.Sprintf("- %s\n", strings.Join(names, " + ")))
	}

	return b.String(), nil
}
