package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CifLord/phasehull/internal/comp"
	"github.com/CifLord/phasehull/internal/phase"
)

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, ErrNoCatalog) {
		t.Fatalf("expected ErrNoCatalog, got %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[[entries\nformula ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed TOML")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "entries.toml")
	cat := &Catalog{
		Catalog: Meta{Name: "Li-O", Description: "test set"},
		Entries: []Record{
			{Name: "li-bcc", Formula: "Li", Energy: -1.9, Kind: phase.KindComputed},
			{Formula: "Li2 O", Energy: -14.2, Correction: -0.7, Attributes: map[string]string{"source": "vasp"}},
		},
	}

	if err := Save(path, cat); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Catalog.Name != "Li-O" {
		t.Errorf("catalog name = %q, want Li-O", got.Catalog.Name)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(got.Entries))
	}
	if got.Entries[1].Correction != -0.7 {
		t.Errorf("correction = %v, want -0.7", got.Entries[1].Correction)
	}
	if got.Entries[1].Attributes["source"] != "vasp" {
		t.Errorf("attributes not preserved: %v", got.Entries[1].Attributes)
	}
}

func TestToEntries(t *testing.T) {
	t.Parallel()

	cat := &Catalog{Entries: []Record{
		{Name: "hematite", Formula: "Fe2O3", Energy: -33.5},
		{Formula: "Fe", Energy: -8.3, Kind: phase.KindExperimental},
	}}

	entries, err := cat.ToEntries()
	if err != nil {
		t.Fatalf("ToEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Kind != phase.KindComputed {
		t.Errorf("default kind = %q, want %q", entries[0].Kind, phase.KindComputed)
	}
	if entries[1].Kind != phase.KindExperimental {
		t.Errorf("kind = %q, want %q", entries[1].Kind, phase.KindExperimental)
	}
	if got := entries[0].Comp.Amount("O"); got != 3 {
		t.Errorf("O amount = %v, want 3", got)
	}
}

func TestToEntriesBadFormula(t *testing.T) {
	t.Parallel()

	cat := &Catalog{Entries: []Record{{Name: "bogus", Formula: "Xx2", Energy: -1}}}
	if _, err := cat.ToEntries(); !errors.Is(err, comp.ErrUnknownElement) {
		t.Fatalf("expected ErrUnknownElement, got %v", err)
	}
}

func TestFromEntries(t *testing.T) {
	t.Parallel()

	e, err := phase.NewEntry("Li2 O", -14.2)
	if err != nil {
		t.Fatal(err)
	}
	cat := FromEntries("export", []phase.Entry{e})
	if cat.Catalog.Name != "export" {
		t.Errorf("name = %q, want export", cat.Catalog.Name)
	}
	if len(cat.Entries) != 1 || cat.Entries[0].Formula != "Li2 O" {
		t.Errorf("unexpected records: %+v", cat.Entries)
	}
}
