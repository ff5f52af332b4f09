package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CifLord/phasehull/internal/phase"
)

func testDiagram(t *testing.T) *phase.PhaseDiagram {
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

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewAppModel_RowsSortedByHullDistance(t *testing.T) {
	t.Parallel()
	m := NewAppModel(testDiagram(t))

	if len(m.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(m.Rows))
	}
	for i := 1; i < len(m.Rows); i++ {
		if m.Rows[i].EAboveHull < m.Rows[i-1].EAboveHull {
			t.Errorf("rows not sorted: row %d (%v) < row %d (%v)",
				i, m.Rows[i].EAboveHull, i-1, m.Rows[i-1].EAboveHull)
		}
	}
	// The unstable polymorph sorts last.
	if m.Rows[3].Entry.DisplayName() != "LiO3" || m.Rows[3].Stable {
		t.Errorf("expected unstable LiO3 last, got %+v", m.Rows[3])
	}
}

func TestView_ShowsSystemAndRows(t *testing.T) {
	t.Parallel()
	m := NewAppModel(testDiagram(t))

	view := m.View()
	if !strings.Contains(view, "Li-O") {
		t.Errorf("missing system in view:\n%s", view)
	}
	if !strings.Contains(view, "3 stable") {
		t.Errorf("missing stable count in view:\n%s", view)
	}
	if !strings.Contains(view, "LiO3") {
		t.Errorf("missing entry row in view:\n%s", view)
	}
}

func TestUpdate_CursorNavigation(t *testing.T) {
	t.Parallel()
	m := NewAppModel(testDiagram(t))

	// Down twice, up once.
	next, _ := m.Update(keyMsg("j"))
	next, _ = next.Update(keyMsg("j"))
	next, _ = next.Update(keyMsg("k"))

	got := next.(AppModel)
	if got.cursor != 1 {
		t.Errorf("cursor = %d, want 1", got.cursor)
	}

	// Cursor clamps at the top.
	next, _ = got.Update(keyMsg("k"))
	next, _ = next.(AppModel).Update(keyMsg("k"))
	if c := next.(AppModel).cursor; c != 0 {
		t.Errorf("cursor = %d, want clamped to 0", c)
	}
}

func TestUpdate_DetailForUnstableShowsDecomposition(t *testing.T) {
	t.Parallel()
	m := NewAppModel(testDiagram(t))

	// Navigate to the last row (unstable LiO3) and open the detail panel.
	var model tea.Model = m
	for range 3 {
		model, _ = model.Update(keyMsg("j"))
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := model.(AppModel).View()
	if !strings.Contains(view, "decomposes to:") {
		t.Errorf("expected decomposition in detail view:\n%s", view)
	}
	if !strings.Contains(view, "above hull:") {
		t.Errorf("expected hull distance in detail view:\n%s", view)
	}
}

func TestUpdate_DetailForStableShowsChempots(t *testing.T) {
	t.Parallel()
	m := NewAppModel(testDiagram(t))

	// Cursor starts on a stable row; open the detail panel.
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := model.(AppModel).View()
	if !strings.Contains(view, "chemical potential windows:") {
		t.Errorf("expected chempot windows in detail view:\n%s", view)
	}

	// Esc closes it.
	model, _ = model.(AppModel).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.(AppModel).showDetail {
		t.Error("expected detail panel closed after esc")
	}
}

func TestUpdate_FacetsToggle(t *testing.T) {
	t.Parallel()
	m := NewAppModel(testDiagram(t))

	model, _ := m.Update(keyMsg("f"))
	view := model.(AppModel).View()
	if !strings.Contains(view, "hull facets") {
		t.Errorf("expected facet list:\n%s", view)
	}

	model, _ = model.(AppModel).Update(keyMsg("f"))
	if model.(AppModel).showFacets {
		t.Error("expected facets toggled off")
	}
}

func TestUpdate_QuitReturnsQuitCmd(t *testing.T) {
	t.Parallel()
	m := NewAppModel(testDiagram(t))

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}
