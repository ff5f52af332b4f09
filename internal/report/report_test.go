package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/CifLord/phasehull/internal/phase"
)

// buildDiagram constructs a small Li-O diagram with one unstable polymorph.
func buildDiagram(t *testing.T) *phase.PhaseDiagram {
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
		mk("LiO3", 0.1),
	}
	pd, err := phase.New(entries, phase.Options{})
	if err != nil {
		t.Fatalf("phase.New: %v", err)
	}
	return pd
}

func TestFormatByName(t *testing.T) {
	t.Parallel()

	for _, name := range FormatNames() {
		if _, err := FormatByName(name); err != nil {
			t.Errorf("FormatByName(%q): %v", name, err)
		}
	}
	if _, err := FormatByName("csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSummaryReport(t *testing.T) {
	t.Parallel()
	pd := buildDiagram(t)

	out, err := (&SummaryReport{}).Render(pd)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(out, "# Phase diagram: Li-O") {
		t.Errorf("missing system header:\n%s", out)
	}
	if !strings.Contains(out, "3 stable phases") {
		t.Errorf("expected 3 stable phases:\n%s", out)
	}
	if !strings.Contains(out, "## Facets") {
		t.Errorf("missing facets section:\n%s", out)
	}
}

func TestStabilityReport(t *testing.T) {
	t.Parallel()
	pd := buildDiagram(t)

	out, err := (&StabilityReport{}).Render(pd)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header plus one row per entry.
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "E ABOVE HULL") {
		t.Errorf("missing header: %q", lines[0])
	}
	// The unstable polymorph sorts last and shows a decomposition.
	if !strings.Contains(lines[4], "LiO3") || !strings.Contains(lines[4], "+") {
		t.Errorf("expected LiO3 decomposition in last row: %q", lines[4])
	}
}

func TestJSONReport(t *testing.T) {
	t.Parallel()
	pd := buildDiagram(t)

	out, err := (&JSONReport{}).Render(pd)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded struct {
		System  string `json:"system"`
		Entries []struct {
			Name       string  `json:"name"`
			EAboveHull float64 `json:"e_above_hull"`
			Stable     bool    `json:"stable"`
		} `json:"entries"`
		Facets [][]string `json:"facets"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if decoded.System != "Li-O" {
		t.Errorf("system = %q, want Li-O", decoded.System)
	}
	if len(decoded.Entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(decoded.Entries))
	}

	stable := 0
	for _, e := range decoded.Entries {
		if e.Stable {
			stable++
			if e.EAboveHull != 0 {
				t.Errorf("stable entry %s has e_above_hull %v", e.Name, e.EAboveHull)
			}
		}
	}
	if stable != 3 {
		t.Errorf("got %d stable entries, want 3", stable)
	}
	if len(decoded.Facets) == 0 {
		t.Error("expected at least one facet")
	}
}

func TestRenderNilDiagram(t *testing.T) {
	t.Parallel()

	for _, name := range FormatNames() {
		f, err := FormatByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Render(nil); err == nil {
			t.Errorf("format %q: expected error for nil diagram", name)
		}
	}
}
