package cmd

import (
	"sort"
	"strings"
	"time"

	"github.com/CifLord/phasehull/internal/catalog"
	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/phase"
	"github.com/CifLord/phasehull/internal/telemetry"
	"github.com/CifLord/phasehull/internal/ui"
)

// catalogPath returns the configured catalog location, falling back to the
// conventional default when flags and config leave it empty.
func catalogPath(cfg config.Config) string {
	if cfg.CatalogPath == "" {
		return catalog.DefaultPath
	}
	return cfg.CatalogPath
}

// openEmitter opens the configured telemetry stream, or a nil no-op emitter
// when telemetry is disabled.
func openEmitter(cfg config.Config) (*telemetry.Emitter, error) {
	if cfg.TelemetryPath == "" {
		return nil, nil
	}
	return telemetry.NewEmitter(cfg.TelemetryPath)
}

// loadEntries reads the configured catalog and converts it to engine entries.
func loadEntries(cfg config.Config) ([]phase.Entry, error) {
	cat, err := catalog.Load(catalogPath(cfg))
	if err != nil {
		return nil, err
	}
	return cat.ToEntries()
}

// buildDiagram constructs the phase diagram from entries under the configured
// options, emitting build telemetry along the way.
func buildDiagram(entries []phase.Entry, cfg config.Config, em *telemetry.Emitter, p *ui.Printer) (*phase.PhaseDiagram, error) {
	system := systemOf(entries)
	_ = em.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      telemetry.KindBuildStart,
		System:    system,
		Data:      map[string]int{"entries": len(entries)},
	})

	if cfg.Verbose {
		p.BuildStart(system, len(entries))
	}

	pd, err := phase.New(entries, phase.Options{
		Tolerance:                  cfg.Tolerance,
		ExcludePositiveCorrections: cfg.ExcludePositiveCorrections,
	})
	if err != nil {
		_ = em.Emit(telemetry.Event{
			Timestamp: time.Now(),
			Kind:      telemetry.KindBuildFailed,
			System:    system,
			Data:      map[string]string{"error": err.Error()},
		})
		return nil, err
	}

	if cfg.ExcludePositiveCorrections {
		for _, e := range entries {
			if e.Correction > 0 {
				_ = em.Emit(telemetry.Event{
					Timestamp: time.Now(),
					Kind:      telemetry.KindEntryExcluded,
					System:    system,
					Entry:     e.DisplayName(),
					Data:      map[string]string{"reason": "positive correction"},
				})
				if cfg.Verbose {
					p.EntryExcluded(e.DisplayName(), "positive correction")
				}
			}
		}
	}

	_ = em.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      telemetry.KindBuildDone,
		System:    strings.Join(pd.Elements(), "-"),
		Data: map[string]int{
			"stable": len(pd.StableEntries()),
			"facets": len(pd.Facets()),
		},
	})

	if cfg.Verbose {
		p.BuildDone(pd)
	}
	return pd, nil
}

// loadAndBuild is the common load-catalog-then-build path for query commands.
func loadAndBuild(cfg config.Config, em *telemetry.Emitter, p *ui.Printer) (*phase.PhaseDiagram, error) {
	entries, err := loadEntries(cfg)
	if err != nil {
		return nil, err
	}
	return buildDiagram(entries, cfg, em, p)
}

// systemOf derives the chemical system label from raw entries.
func systemOf(entries []phase.Entry) string {
	seen := map[string]bool{}
	var els []string
	for _, e := range entries {
		for _, el := range e.Comp.Elements() {
			if !seen[el] {
				seen[el] = true
				els = append(els, el)
			}
		}
	}
	sort.Strings(els)
	return strings.Join(els, "-")
}
