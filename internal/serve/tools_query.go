package serve

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/phase"
	"github.com/CifLord/phasehull/internal/telemetry"
)

// stableEntriesInput is the input schema for the stable_entries tool.
type stableEntriesInput struct{}

// stableEntry is a single phase in the stable_entries response.
type stableEntry struct {
	Name            string  `json:"name"`
	Formula         string  `json:"formula"`
	FormationEnergy float64 `json:"formation_energy"`
}

// stableEntriesOutput is the output schema for the stable_entries tool.
type stableEntriesOutput struct {
	System  string        `json:"system"`
	Entries []stableEntry `json:"entries"`
}

// energyAboveHullInput is the input schema for the energy_above_hull tool.
type energyAboveHullInput struct {
	Formula string  `json:"formula" jsonschema:"Chemical formula of the phase"`
	Energy  float64 `json:"energy" jsonschema:"Total energy for the formula's atom count"`
}

// energyAboveHullOutput is the output schema for the energy_above_hull tool.
type energyAboveHullOutput struct {
	EAboveHull    float64 `json:"e_above_hull"`
	EnergyPerAtom float64 `json:"energy_per_atom"`
	Stable        bool    `json:"stable"`
}

// decomposeInput is the input schema for the decompose tool.
type decomposeInput struct {
	Formula string `json:"formula" jsonschema:"Chemical formula of the composition to resolve"`
}

// decomposePortion is a single product in the decompose response.
type decomposePortion struct {
	Name    string  `json:"name"`
	Formula string  `json:"formula"`
	Amount  float64 `json:"amount"`
}

// decomposeOutput is the output schema for the decompose tool.
type decomposeOutput struct {
	Portions   []decomposePortion `json:"portions"`
	HullEnergy float64            `json:"hull_energy"`
}

// chempotRangesInput is the input schema for the chempot_ranges tool.
type chempotRangesInput struct {
	Formula string `json:"formula" jsonschema:"Chemical formula of a stable phase"`
}

// chempotWindow is one element's potential window in the chempot_ranges response.
type chempotWindow struct {
	Element string  `json:"element"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// chempotRangesOutput is the output schema for the chempot_ranges tool.
type chempotRangesOutput struct {
	Windows []chempotWindow `json:"windows"`
}

// registerQueryTools registers the hull query MCP tools.
func (s *Server) registerQueryTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "stable_entries",
		Description: "List the stable phases on the convex hull",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input stableEntriesInput) (*mcp.CallToolResult, stableEntriesOutput, error) {
		out, err := s.StableEntries()
		return nil, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "energy_above_hull",
		Description: "Compute how far a candidate phase sits above the hull",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input energyAboveHullInput) (*mcp.CallToolResult, energyAboveHullOutput, error) {
		out, err := s.EnergyAboveHull(input.Formula, input.Energy)
		return nil, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "decompose",
		Description: "Resolve a composition into its equilibrium phase mixture",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input decomposeInput) (*mcp.CallToolResult, decomposeOutput, error) {
		out, err := s.DecomposeFormula(input.Formula)
		return nil, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "chempot_ranges",
		Description: "Chemical potential windows over which a stable phase persists",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input chempotRangesInput) (*mcp.CallToolResult, chempotRangesOutput, error) {
		out, err := s.ChempotRangesFor(input.Formula)
		return nil, out, err
	})
}

// StableEntries implements the stable_entries tool against the current diagram.
func (s *Server) StableEntries() (stableEntriesOutput, error) {
	pd := s.Diagram()

	out := stableEntriesOutput{Entries: []stableEntry{}}
	for i, el := range pd.Elements() {
		if i > 0 {
			out.System += "-"
		}
		out.System += el
	}

	for _, e := range pd.StableEntries() {
		ef, err := pd.FormationEnergy(e)
		if err != nil {
			return stableEntriesOutput{}, fmt.Errorf("formation energy for %s: %w", e.DisplayName(), err)
		}
		out.Entries = append(out.Entries, stableEntry{
			Name:            e.DisplayName(),
			Formula:         e.Comp.ReducedFormula(),
			FormationEnergy: ef,
		})
	}

	s.emit(telemetry.KindQueryStable, "", nil)
	return out, nil
}

// EnergyAboveHull implements the energy_above_hull tool against the current
// diagram.
func (s *Server) EnergyAboveHull(formula string, energy float64) (energyAboveHullOutput, error) {
	if formula == "" {
		return energyAboveHullOutput{}, fmt.Errorf("formula is required")
	}

	pd := s.Diagram()
	c, err := comp.Parse(formula)
	if err != nil {
		return energyAboveHullOutput{}, fmt.Errorf("parsing formula: %w", err)
	}

	candidate := phase.Entry{Comp: c, Energy: energy, Kind: phase.KindComputed}
	eah, err := pd.EAboveHull(candidate)
	if err != nil {
		return energyAboveHullOutput{}, fmt.Errorf("energy above hull: %w", err)
	}

	s.emit(telemetry.KindQueryEnergy, formula, map[string]float64{"e_above_hull": eah})
	return energyAboveHullOutput{
		EAboveHull:    eah,
		EnergyPerAtom: candidate.EnergyPerAtom(),
		Stable:        eah == 0 && pd.IsStable(candidate),
	}, nil
}

// DecomposeFormula implements the decompose tool against the current diagram.
func (s *Server) DecomposeFormula(formula string) (decomposeOutput, error) {
	if formula == "" {
		return decomposeOutput{}, fmt.Errorf("formula is required")
	}

	pd := s.Diagram()
	c, err := comp.Parse(formula)
	if err != nil {
		return decomposeOutput{}, fmt.Errorf("parsing formula: %w", err)
	}

	d, err := pd.Decompose(c)
	if err != nil {
		return decomposeOutput{}, fmt.Errorf("decomposing %s: %w", formula, err)
	}

	out := decomposeOutput{Portions: []decomposePortion{}, HullEnergy: d.Energy}
	for _, p := range d.Portions {
		out.Portions = append(out.Portions, decomposePortion{
			Name:    p.Entry.DisplayName(),
			Formula: p.Entry.Comp.ReducedFormula(),
			Amount:  p.Amount,
		})
	}

	s.emit(telemetry.KindQueryDecomp, formula, nil)
	return out, nil
}

// ChempotRangesFor implements the chempot_ranges tool against the current
// diagram. The formula must match a stable entry.
func (s *Server) ChempotRangesFor(formula string) (chempotRangesOutput, error) {
	if formula == "" {
		return chempotRangesOutput{}, fmt.Errorf("formula is required")
	}

	pd := s.Diagram()
	c, err := comp.Parse(formula)
	if err != nil {
		return chempotRangesOutput{}, fmt.Errorf("parsing formula: %w", err)
	}

	// Locate the matching stable entry by composition.
	for _, e := range pd.StableEntries() {
		if !e.Comp.Fractional().AlmostEquals(c.Fractional(), pd.Tolerance()) {
			continue
		}
		ranges, err := pd.ChempotRanges(e)
		if err != nil {
			return chempotRangesOutput{}, fmt.Errorf("chemical potentials for %s: %w", formula, err)
		}

		out := chempotRangesOutput{Windows: []chempotWindow{}}
		for _, el := range pd.Elements() {
			if r, ok := ranges[el]; ok {
				out.Windows = append(out.Windows, chempotWindow{Element: el, Min: r.Min, Max: r.Max})
			}
		}
		s.emit(telemetry.KindQueryChempot, formula, nil)
		return out, nil
	}

	return chempotRangesOutput{}, fmt.Errorf("no stable phase matches %q", formula)
}

// emit records a telemetry event for a served query.
func (s *Server) emit(kind, entry string, data any) {
	_ = s.em.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      kind,
		Entry:     entry,
		Data:      data,
	})
}
