package phase

import (
	"errors"
	"math"
	"testing"

	"github.com/CifLord/phasehull/internal/comp"
)

func TestNewEntry(t *testing.T) {
	t.Parallel()

	e, err := NewEntry("Fe2O3", -33.5)
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if e.Kind != KindComputed {
		t.Errorf("Kind = %q, want %q", e.Kind, KindComputed)
	}
	if got := e.EnergyPerAtom(); math.Abs(got-(-6.7)) > 1e-12 {
		t.Errorf("EnergyPerAtom() = %v, want -6.7", got)
	}

	if _, err := NewEntry("NotAFormula!", 0); err == nil {
		t.Error("NewEntry accepted a malformed formula")
	}
}

func TestEntryCorrection(t *testing.T) {
	t.Parallel()

	e := Entry{Comp: comp.MustParse("O2"), Energy: -10, Correction: 1}
	if got := e.TotalEnergy(); got != -9 {
		t.Errorf("TotalEnergy() = %v, want -9", got)
	}
	if got := e.EnergyPerAtom(); math.Abs(got-(-4.5)) > 1e-12 {
		t.Errorf("EnergyPerAtom() = %v, want -4.5", got)
	}
}

func TestEntryDisplayName(t *testing.T) {
	t.Parallel()

	e := Entry{Comp: comp.MustParse("Fe4O6"), Energy: -1}
	if got := e.DisplayName(); got != "Fe2O3" {
		t.Errorf("DisplayName() = %q, want reduced formula Fe2O3", got)
	}
	e.Name = "mp-19770"
	if got := e.DisplayName(); got != "mp-19770" {
		t.Errorf("DisplayName() = %q, want the explicit name", got)
	}
}

func TestEntryValidate(t *testing.T) {
	t.Parallel()

	if err := (Entry{Comp: comp.MustParse("Fe")}).Validate(); err != nil {
		t.Errorf("Validate() = %v for a valid entry", err)
	}
	err := (Entry{Comp: comp.Composition{}}).Validate()
	if !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Validate() = %v, want ErrInvalidEntry", err)
	}
}
