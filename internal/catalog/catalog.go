// Package catalog reads and writes TOML entry catalogs, the file format the
// CLI feeds into the phase-diagram engine.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/phase"
)

// DefaultPath is the conventional catalog location in a working directory.
const DefaultPath = "entries.toml"

// ErrNoCatalog is returned when the catalog file does not exist.
var ErrNoCatalog = errors.New("catalog file not found")

// Meta describes the catalog as a whole.
type Meta struct {
	Name        string `toml:"name"`
	Description string `toml:"description,omitempty"`
}

// Record is one entry row in the catalog file.
type Record struct {
	Name       string            `toml:"name,omitempty"`
	Formula    string            `toml:"formula"`
	Energy     float64           `toml:"energy"`
	Correction float64           `toml:"correction,omitempty"`
	Kind       string            `toml:"kind,omitempty"`
	Attributes map[string]string `toml:"attributes,omitempty"`
}

// Catalog is a named set of entry records.
type Catalog struct {
	Catalog Meta     `toml:"catalog"`
	Entries []Record `toml:"entries"`
}

// Load reads a catalog from path. A missing file is ErrNoCatalog; the caller
// decides whether that is fatal.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCatalog, path)
		}
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var cat Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return &cat, nil
}

// Save writes the catalog to path, creating parent directories as needed.
func Save(path string, cat *Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog %s: %w", path, err)
	}
	return nil
}

// ToEntries converts the catalog's records into engine entries, validating
// each formula. Records without a kind default to computed.
func (c *Catalog) ToEntries() ([]phase.Entry, error) {
	entries := make([]phase.Entry, 0, len(c.Entries))
	for i, r := range c.Entries {
		cm, err := comp.Parse(r.Formula)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, r.Name, err)
		}
		kind := r.Kind
		if kind == "" {
			kind = phase.KindComputed
		}
		entries = append(entries, phase.Entry{
			Name:       r.Name,
			Comp:       cm,
			Energy:     r.Energy,
			Correction: r.Correction,
			Kind:       kind,
			Attributes: r.Attributes,
		})
	}
	return entries, nil
}

// FromEntries builds a catalog from engine entries, for export.
func FromEntries(name string, entries []phase.Entry) *Catalog {
	cat := &Catalog{Catalog: Meta{Name: name}}
	for _, e := range entries {
		cat.Entries = append(cat.Entries, Record{
			Name:       e.Name,
			Formula:    e.Comp.Formula(),
			Energy:     e.Energy,
			Correction: e.Correction,
			Kind:       e.Kind,
			Attributes: e.Attributes,
		})
	}
	return cat
}
