package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CifLord/phasehull/internal/phase"
)

// StabilityReport renders every entry with its energy above hull and, for
// unstable entries, the phases it decomposes into. Entries are ordered by
// increasing energy above hull.
type StabilityReport struct{}

// Render produces a text table of per-entry stability.
func (r *StabilityReport) Render(pd *phase.PhaseDiagram) (string, error) {
	if pd == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	type row struct {
		entry phase.Entry
		eah   float64
	}

	entries := pd.Entries()
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		eah, err := pd.EAboveHull(e)
		if err != nil {
			return "", fmt.Errorf("energy above hull for %s: %w", e.DisplayName(), err)
		}
		rows = append(rows, row{entry: e, eah: eah})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].eah < rows[j].eah })

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-24s %12s  %s\n", "ENTRY", "E ABOVE HULL", "DECOMPOSES TO"))

	for _, r := range rows {
		decomp := "-"
		if r.eah > 0 {
			d, err := pd.Decompose(r.entry.Comp)
			if err != nil {
				return "", fmt.Errorf("decompose %s: %w", r.entry.DisplayName(), err)
			}
			parts := make([]string, len(d.Portions))
			for i, p := range d.Portions {
				parts[i] = fmt.Sprintf("%.3f %s", p.Amount, p.Entry.DisplayName())
			}
			decomp = strings.Join(parts, " + ")
		}
		b.WriteString(fmt.Sprintf("%-24s %12.4f  %s\n", r.entry.DisplayName(), r.eah, decomp))
	}

	return b.String(), nil
}
