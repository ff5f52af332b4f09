// Package report renders built phase diagrams into human- or machine-readable
// output for the CLI.
package report

import (
	"fmt"

	"github.com/CifLord/phasehull/internal/phase"
)

// Format defines how a phase diagram is rendered into a string.
type Format interface {
	// Render produces the full report content from the diagram.
	Render(pd *phase.PhaseDiagram) (string, error)
}

// FormatByName returns the Format implementation for the given name.
// Supported names: summary, stability, json.
func FormatByName(name string) (Format, error) {
	switch name {
	case "summary":
		return &SummaryReport{}, nil
	case "stability":
		return &StabilityReport{}, nil
	case "json":
		return &JSONReport{}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", name)
	}
}

// FormatNames returns the list of all supported report format names.
func FormatNames() []string {
	return []string{"summary", "stability", "json"}
}
