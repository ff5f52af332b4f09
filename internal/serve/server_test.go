package serve

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/CifLord/phasehull/internal/phase"
)

func buildDiagram(t *testing.T, extra ...phase.Entry) *phase.PhaseDiagram {
	t.Helper()

	mk := func(formula string, epa float64) phase.Entry {
		e, err := phase.NewEntry(formula, 0)
		if err != nil {
			t.Fatalf("NewEntry(%q): %v", formula, err)
		}
		e.Energy = epa * e.Comp.NAtoms()
		return e
	}

	entries := []phase.Entry{
		mk("Li", 0),
		mk("O", 0),
		mk("LiO", -0.2),
	}
	entries = append(entries, extra...)

	pd, err := phase.New(entries, phase.Options{})
	if err != nil {
		t.Fatalf("phase.New: %v", err)
	}
	return pd
}

func TestStableEntries(t *testing.T) {
	t.Parallel()
	s := NewServer(buildDiagram(t), 0, nil)

	out, err := s.StableEntries()
	if err != nil {
		t.Fatalf("StableEntries: %v", err)
	}
	if out.System != "Li-O" {
		t.Errorf("system = %q, want Li-O", out.System)
	}
	if len(out.Entries) != 3 {
		t.Fatalf("got %d stable entries, want 3", len(out.Entries))
	}

	found := false
	for _, e := range out.Entries {
		if e.Formula == "LiO" {
			found = true
			if e.FormationEnergy >= 0 {
				t.Errorf("LiO formation energy = %v, want negative", e.FormationEnergy)
			}
		}
	}
	if !found {
		t.Error("LiO missing from stable entries")
	}
}

func TestEnergyAboveHull(t *testing.T) {
	t.Parallel()
	s := NewServer(buildDiagram(t), 0, nil)

	// On the hull: LiO at its own energy.
	out, err := s.EnergyAboveHull("Li2 O2", -0.8)
	if err != nil {
		t.Fatalf("EnergyAboveHull: %v", err)
	}
	if out.EAboveHull != 0 || !out.Stable {
		t.Errorf("expected stable on-hull result, got %+v", out)
	}

	// Above the hull by 0.1 per atom.
	out, err = s.EnergyAboveHull("LiO", -0.2)
	if err != nil {
		t.Fatalf("EnergyAboveHull: %v", err)
	}
	if out.EAboveHull < 0.099 || out.EAboveHull > 0.101 {
		t.Errorf("e_above_hull = %v, want 0.1", out.EAboveHull)
	}
	if out.Stable {
		t.Error("expected unstable result")
	}

	// Errors surface.
	if _, err := s.EnergyAboveHull("", 0); err == nil {
		t.Error("expected error for empty formula")
	}
	if _, err := s.EnergyAboveHull("Fe", -1); err == nil {
		t.Error("expected error for out-of-system element")
	}
}

func TestDecomposeFormula(t *testing.T) {
	t.Parallel()
	s := NewServer(buildDiagram(t), 0, nil)

	out, err := s.DecomposeFormula("LiO3")
	if err != nil {
		t.Fatalf("DecomposeFormula: %v", err)
	}
	if len(out.Portions) != 2 {
		t.Fatalf("got %d portions, want 2", len(out.Portions))
	}
	var total float64
	for _, p := range out.Portions {
		total += p.Amount
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("portion amounts sum to %v, want 1", total)
	}
	if out.HullEnergy >= 0 {
		t.Errorf("hull energy = %v, want negative", out.HullEnergy)
	}

	if _, err := s.DecomposeFormula("Xx"); err == nil {
		t.Error("expected error for unknown element")
	}
}

func TestChempotRangesFor(t *testing.T) {
	t.Parallel()
	s := NewServer(buildDiagram(t), 0, nil)

	out, err := s.ChempotRangesFor("LiO")
	if err != nil {
		t.Fatalf("ChempotRangesFor: %v", err)
	}
	if len(out.Windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(out.Windows))
	}
	for _, w := range out.Windows {
		if w.Min > w.Max {
			t.Errorf("window for %s inverted: [%v, %v]", w.Element, w.Min, w.Max)
		}
	}

	// Formulas matching the same fractional composition resolve too.
	if _, err := s.ChempotRangesFor("Li2 O2"); err != nil {
		t.Errorf("scaled formula should match: %v", err)
	}

	if _, err := s.ChempotRangesFor("LiO3"); err == nil {
		t.Error("expected error for unstable composition")
	}
}

func TestSetDiagramSwapsAtomically(t *testing.T) {
	t.Parallel()

	lio3, err := phase.NewEntry("LiO3", 0)
	if err != nil {
		t.Fatal(err)
	}
	lio3.Energy = -0.3 * lio3.Comp.NAtoms()

	s := NewServer(buildDiagram(t), 0, nil)

	before, err := s.StableEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(before.Entries) != 3 {
		t.Fatalf("got %d stable entries before swap, want 3", len(before.Entries))
	}

	s.SetDiagram(buildDiagram(t, lio3))

	after, err := s.StableEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Entries) != 4 {
		t.Fatalf("got %d stable entries after swap, want 4", len(after.Entries))
	}
}

func TestStartStop(t *testing.T) {
	t.Parallel()
	s := NewServer(buildDiagram(t), 0, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	addr := s.Addr()
	if addr == nil {
		t.Fatal("expected listener address")
	}
	if !strings.Contains(addr.String(), ":") {
		t.Errorf("unexpected address: %v", addr)
	}

	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
