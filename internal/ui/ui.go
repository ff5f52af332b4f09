package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/CifLord/phasehull/internal/phase"
)

// ANSI color codes.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	blue    = "\033[34m"
	yellow  = "\033[33m"
	green   = "\033[32m"
	red     = "\033[31m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

type Printer struct{}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) Banner() {
	fmt.Fprintln(os.Stderr, bold+cyan+"  ╔══════════════════════════════════╗"+reset)
	fmt.Fprintln(os.Stderr, bold+cyan+"  ║"+reset+bold+"  PHASEHULL  "+dim+"phase-diagram engine"+reset+bold+cyan+" ║"+reset)
	fmt.Fprintln(os.Stderr, bold+cyan+"  ╚══════════════════════════════════╝"+reset)
	fmt.Fprintln(os.Stderr)
}

func (p *Printer) BuildStart(system string, entries int) {
	fmt.Fprintf(os.Stderr, "\n"+bold+magenta+"── building %s (%d entries) ──"+reset+"\n", system, entries)
}

func (p *Printer) BuildDone(pd *phase.PhaseDiagram) {
	fmt.Fprintf(os.Stderr, green+bold+"✓ hull built"+reset+dim+" — %d stable phases, %d facets"+reset+"\n",
		len(pd.StableEntries()), len(pd.Facets()))
}

func (p *Printer) Rebuild(path string) {
	fmt.Fprintf(os.Stderr, cyan+"↻ catalog changed"+reset+dim+" %s — rebuilding"+reset+"\n", path)
}

func (p *Printer) EntryExcluded(name, reason string) {
	fmt.Fprintf(os.Stderr, yellow+"⚠ excluded"+reset+" %s "+dim+"(%s)"+reset+"\n", name, reason)
}

func (p *Printer) Stable(name string) {
	fmt.Fprintf(os.Stderr, green+bold+"✓ STABLE"+reset+" %s — on the hull\n", name)
}

func (p *Printer) Unstable(name string, eAboveHull float64) {
	fmt.Fprintf(os.Stderr, yellow+bold+"✗ unstable"+reset+" %s "+dim+"(%.4f above hull)"+reset+"\n", name, eAboveHull)
}

func (p *Printer) Decomposition(formula string, d phase.Decomposition) {
	fmt.Fprintf(os.Stderr, cyan+"◆ %s"+reset+" decomposes to:\n", formula)
	for _, portion := range d.Portions {
		fmt.Fprintf(os.Stderr, "  "+blue+"•"+reset+" %.4f × %s\n", portion.Amount, portion.Entry.DisplayName())
	}
	fmt.Fprintf(os.Stderr, dim+"  hull energy: %.4f per atom"+reset+"\n", d.Energy)
}

func (p *Printer) ChempotRanges(name string, ranges map[string]phase.Range, elements []string) {
	fmt.Fprintf(os.Stderr, cyan+"◆ %s"+reset+" chemical potential windows:\n", name)
	for _, el := range elements {
		r, ok := ranges[el]
		if !ok {
			continue
		}
		fmt.Fprintf(os.Stderr, "  "+blue+"μ(%s)"+reset+" ∈ [%.4f, %.4f]\n", el, r.Min, r.Max)
	}
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", msg)
}

func (p *Printer) ServeStarted(port int) {
	fmt.Fprintf(os.Stderr, green+"◆ query server listening"+reset+dim+" on :%d"+reset+"\n", port)
}

func (p *Printer) WatchStarted(path string) {
	fmt.Fprintf(os.Stderr, cyan+"◆ watching"+reset+" %s "+dim+"(ctrl-c to stop)"+reset+"\n", path)
}

func (p *Printer) ImportDone(count int, path string) {
	fmt.Fprintf(os.Stderr, green+"◆ imported"+reset+" %d entries "+dim+"→ %s"+reset+"\n", count, path)
}

func (p *Printer) EntryList(entries []phase.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, dim+"  (no entries)"+reset)
		return
	}
	for _, e := range entries {
		kind := e.Kind
		if kind == "" {
			kind = phase.KindComputed
		}
		fmt.Fprintf(os.Stderr, "  "+bold+"%-20s"+reset+" %-12s %10.4f "+dim+"%s"+reset+"\n",
			e.DisplayName(), e.Comp.ReducedFormula(), e.EnergyPerAtom(), kind)
	}
}

func (p *Printer) SystemHeader(elements []string) {
	fmt.Fprintf(os.Stderr, "\n"+bold+cyan+"system: %s"+reset+"\n", strings.Join(elements, "-"))
}
