// Package tui implements an interactive browser for a built phase diagram:
// a stability table over every entry, with per-entry detail panels showing
// decomposition products and chemical potential windows.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CifLord/phasehull/internal/phase"
)

// marginalThreshold separates gold "nearly stable" rows from red ones.
const marginalThreshold = 0.05

// Row is one precomputed line of the stability table.
type Row struct {
	Entry      phase.Entry
	EAboveHull float64
	Stable     bool
}

// AppModel is the root BubbleTea model. All hull queries are resolved at
// construction; Update and View only navigate the precomputed rows.
type AppModel struct {
	Diagram *phase.PhaseDiagram
	Rows    []Row
	Keys    KeyMap

	cursor     int
	showDetail bool
	showFacets bool
	width      int
	height     int
	err        error
}

// NewAppModel builds the stability table from a diagram, ordered by
// increasing energy above hull.
func NewAppModel(pd *phase.PhaseDiagram) AppModel {
	m := AppModel{
		Diagram: pd,
		Keys:    DefaultKeyMap(),
		width:   80,
		height:  24,
	}

	for _, e := range pd.Entries() {
		eah, err := pd.EAboveHull(e)
		if err != nil {
			m.err = err
			continue
		}
		m.Rows = append(m.Rows, Row{Entry: e, EAboveHull: eah, Stable: pd.IsStable(e)})
	}
	sort.SliceStable(m.Rows, func(i, j int) bool {
		return m.Rows[i].EAboveHull < m.Rows[j].EAboveHull
	})
	return m
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.Keys.Down):
			if m.cursor < len(m.Rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.Keys.Enter):
			m.showDetail = true
			m.showFacets = false
		case key.Matches(msg, m.Keys.Facets):
			m.showFacets = !m.showFacets
			m.showDetail = false
		case key.Matches(msg, m.Keys.Back):
			m.showDetail = false
			m.showFacets = false
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m AppModel) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	if m.showFacets {
		b.WriteString(m.facetView())
	} else {
		b.WriteString(m.tableView())
		if m.showDetail && len(m.Rows) > 0 {
			b.WriteString("\n")
			b.WriteString(m.detailView(m.Rows[m.cursor]))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m AppModel) headerView() string {
	system := strings.Join(m.Diagram.Elements(), "-")
	info := fmt.Sprintf("%s  %s  %s",
		styleHeaderLabel.Render(system),
		fmt.Sprintf("%d entries", len(m.Rows)),
		fmt.Sprintf("%d stable", len(m.Diagram.StableEntries())))
	return styleHeader.Width(m.width).Render(info)
}

func (m AppModel) tableView() string {
	var b strings.Builder
	for i, r := range m.Rows {
		b.WriteString(m.rowView(i, r))
		b.WriteString("\n")
	}
	return b.String()
}

func (m AppModel) rowView(i int, r Row) string {
	icon := iconUnstable
	style := styleRowUnstable
	switch {
	case r.Stable:
		icon = iconStable
		style = styleRowStable
	case r.EAboveHull <= marginalThreshold:
		style = styleRowMarginal
	}

	line := fmt.Sprintf("%s %-20s %-12s %10.4f",
		icon, r.Entry.DisplayName(), r.Entry.Comp.ReducedFormula(), r.EAboveHull)

	if i == m.cursor {
		return styleSelectionIndicator.Render(selectionIndicator) + styleRowSelected.Render(line)
	}
	return " " + style.Render(line)
}

func (m AppModel) detailView(r Row) string {
	var b strings.Builder
	b.WriteString(styleDetailTitle.Render(r.Entry.DisplayName()))
	b.WriteString("\n")

	ef, err := m.Diagram.FormationEnergy(r.Entry)
	if err == nil {
		b.WriteString(fmt.Sprintf("formation energy: %.4f per atom\n", ef))
	}
	b.WriteString(fmt.Sprintf("above hull:       %.4f per atom\n", r.EAboveHull))

	if r.Stable {
		ranges, err := m.Diagram.ChempotRanges(r.Entry)
		if err == nil {
			b.WriteString(styleDetailDim.Render("chemical potential windows:"))
			b.WriteString("\n")
			for _, el := range m.Diagram.Elements() {
				if rg, ok := ranges[el]; ok {
					b.WriteString(fmt.Sprintf("  μ(%s) ∈ [%.4f, %.4f]\n", el, rg.Min, rg.Max))
				}
			}
		}
	} else {
		d, err := m.Diagram.Decompose(r.Entry.Comp)
		if err == nil {
			b.WriteString(styleDetailDim.Render("decomposes to:"))
			b.WriteString("\n")
			for _, p := range d.Portions {
				b.WriteString(fmt.Sprintf("  %.4f × %s\n", p.Amount, p.Entry.DisplayName()))
			}
		}
	}

	return styleDetailBorder.Render(strings.TrimRight(b.String(), "\n"))
}

func (m AppModel) facetView() string {
	var b strings.Builder
	b.WriteString(styleDetailTitle.Render("hull facets"))
	b.WriteString("\n")
	for _, f := range m.Diagram.Facets() {
		names := make([]string, len(f.Entries))
		for i, e := range f.Entries {
			names[i] = e.DisplayName()
		}
		b.WriteString("  " + strings.Join(names, " + ") + "\n")
	}
	return b.String()
}

func (m AppModel) footerView() string {
	bindings := []key.Binding{m.Keys.Up, m.Keys.Down, m.Keys.Enter, m.Keys.Facets, m.Keys.Back, m.Keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, styleFooterKey.Render(h.Key)+" "+styleFooterDesc.Render(h.Desc))
	}
	return parts2line(parts)
}

func parts2line(parts []string) string {
	sep := styleFooterSep.Render(" · ")
	return strings.Join(parts, sep)
}
