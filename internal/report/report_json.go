package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CifLord/phasehull/internal/phase"
)

// JSONReport renders the full diagram as machine-readable JSON for external
// tooling.
type JSONReport struct{}

// jsonOutput is the top-level structure for JSON report output.
type jsonOutput struct {
	System    string      `json:"system"`
	Elements  []string    `json:"elements"`
	Tolerance float64     `json:"tolerance"`
	Entries   []jsonEntry `json:"entries"`
	Facets    [][]string  `json:"facets"`
}

// jsonEntry is the JSON representation of a single entry's stability.
type jsonEntry struct {
	Name            string  `json:"name"`
	Formula         string  `json:"formula"`
	EnergyPerAtom   float64 `json:"energy_per_atom"`
	FormationEnergy float64 `json:"formation_energy"`
	EAboveHull      float64 `json:"e_above_hull"`
	Stable          bool    `json:"stable"`
	Kind            string  `json:"kind,omitempty"`
}

// Render produces a JSON string of the full diagram.
func (r *JSONReport) Render(pd *phase.PhaseDiagram) (string, error) {
	if pd == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	out := jsonOutput{
		System:    strings.Join(pd.Elements(), "-"),
		Elements:  emptyIfNil(pd.Elements()),
		Tolerance: pd.Tolerance(),
		Entries:   []jsonEntry{},
		Facets:    [][]string{},
	}

	for _, e := range pd.Entries() {
		eah, err := pd.EAboveHull(e)
		if err != nil {
			return "", fmt.Errorf("energy above hull for %s: %w", e.DisplayName(), err)
		}
		ef, err := pd.FormationEnergy(e)
		if err != nil {
			return "", fmt.Errorf("formation energy for %s: %w", e.DisplayName(), err)
		}
		out.Entries = append(out.Entries, jsonEntry{
			Name:            e.DisplayName(),
			Formula:         e.Comp.ReducedFormula(),
			EnergyPerAtom:   e.EnergyPerAtom(),
			FormationEnergy: ef,
			EAboveHull:      eah,
			Stable:          pd.IsStable(e),
			Kind:            e.Kind,
		})
	}

	for _, f := range pd.Facets() {
		names := make([]string, len(f.Entries))
		for i, e := range f.Entries {
			names[i] = e.DisplayName()
		}
		out.Facets = append(out.Facets, names)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON report: %w", err)
	}

	return string(data) + "\n", nil
}

// emptyIfNil returns an empty slice if the input is nil, ensuring JSON
// arrays are rendered as [] instead of null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
