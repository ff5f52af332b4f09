// Package comp provides the composition value type shared by the phase-diagram
// engine and its collaborators. A composition maps element symbols to positive
// amounts; it can be parsed from and formatted as a chemical formula.
package comp

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrBadFormula is returned when a formula string cannot be parsed.
var ErrBadFormula = errors.New("malformed formula")

// ErrUnknownElement is returned when a formula names a symbol that is not an
// element.
var ErrUnknownElement = errors.New("unknown element")

// ErrEmptyComposition is returned when a composition has no atoms.
var ErrEmptyComposition = errors.New("composition has no atoms")

// AmountTol is the amount below which an element is treated as absent.
// Compositions arriving from floating arithmetic routinely carry residues
// like 1e-12 of an element that cancelled out.
const AmountTol = 1e-8

// Composition maps element symbols to amounts. Amounts are positive; a zero
// or negative amount means the element is absent. Callers treat compositions
// as immutable once built.
type Composition map[string]float64

// Parse builds a Composition from a chemical formula such as "Fe2O3",
// "LiFePO4" or "Ca(OH)2". Nested parenthesized groups with multipliers are
// supported. Amounts may be fractional ("A0.5B0.5"). Spaces between tokens
// are ignored, so Formula output round-trips.
func Parse(formula string) (Composition, error) {
	s := strings.ReplaceAll(strings.TrimSpace(formula), " ", "")
	if s == "" {
		return nil, fmt.Errorf("%w: empty formula", ErrBadFormula)
	}
	c := Composition{}
	rest, err := parseGroup(s, 1.0, c)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrBadFormula, rest, formula)
	}
	if c.NAtoms() <= AmountTol {
		return nil, fmt.Errorf("%w: %q", ErrEmptyComposition, formula)
	}
	return c, nil
}

// MustParse is Parse that panics on error, for tests and literals.
func MustParse(formula string) Composition {
	c, err := Parse(formula)
	if err != nil {
		panic(err)
	}
	return c
}

// parseGroup consumes element/group tokens from s, scaling amounts by mult
// and accumulating into c. It stops at a closing parenthesis (returned in the
// remainder) or end of input.
func parseGroup(s string, mult float64, c Composition) (string, error) {
	for s != "" {
		switch {
		case s[0] == ')':
			return s, nil
		case s[0] == '(':
			inner := Composition{}
			rest, err := parseGroup(s[1:], 1.0, inner)
			if err != nil {
				return "", err
			}
			if rest == "" || rest[0] != ')' {
				return "", fmt.Errorf("%w: unbalanced parentheses", ErrBadFormula)
			}
			n, rest, err := parseAmount(rest[1:])
			if err != nil {
				return "", err
			}
			for el, amt := range inner {
				c[el] += amt * n * mult
			}
			s = rest
		default:
			el, rest, err := parseSymbol(s)
			if err != nil {
				return "", err
			}
			n, rest, err := parseAmount(rest)
			if err != nil {
				return "", err
			}
			c[el] += n * mult
			s = rest
		}
	}
	return "", nil
}

// parseSymbol consumes one element symbol: an uppercase letter followed by
// any lowercase letters, validated against the periodic table.
func parseSymbol(s string) (string, string, error) {
	if s[0] < 'A' || s[0] > 'Z' {
		return "", "", fmt.Errorf("%w: expected element at %q", ErrBadFormula, s)
	}
	i := 1
	for i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
		i++
	}
	sym := s[:i]
	if !IsElement(sym) {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownElement, sym)
	}
	return sym, s[i:], nil
}

// parseAmount consumes an optional numeric multiplier (integer or decimal).
// A missing multiplier means 1.
func parseAmount(s string) (float64, string, error) {
	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 1.0, s, nil
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || n <= 0 {
		return 0, "", fmt.Errorf("%w: bad amount %q", ErrBadFormula, s[:i])
	}
	return n, s[i:], nil
}

// NAtoms returns the total number of atoms in the composition.
func (c Composition) NAtoms() float64 {
	var total float64
	for _, amt := range c {
		if amt > AmountTol {
			total += amt
		}
	}
	return total
}

// Elements returns the symbols present (amount above AmountTol), sorted.
func (c Composition) Elements() []string {
	els := make([]string, 0, len(c))
	for el, amt := range c {
		if amt > AmountTol {
			els = append(els, el)
		}
	}
	sort.Strings(els)
	return els
}

// Amount returns the amount of el, or 0 if absent.
func (c Composition) Amount(el string) float64 {
	amt := c[el]
	if amt <= AmountTol {
		return 0
	}
	return amt
}

// Fraction returns el's mole fraction (amount / total atoms).
func (c Composition) Fraction(el string) float64 {
	total := c.NAtoms()
	if total == 0 {
		return 0
	}
	return c.Amount(el) / total
}

// Fractional returns a copy normalized so NAtoms() == 1.
func (c Composition) Fractional() Composition {
	total := c.NAtoms()
	out := make(Composition, len(c))
	if total == 0 {
		return out
	}
	for el, amt := range c {
		if amt > AmountTol {
			out[el] = amt / total
		}
	}
	return out
}

// Scale returns a copy with every amount multiplied by factor.
func (c Composition) Scale(factor float64) Composition {
	out := make(Composition, len(c))
	for el, amt := range c {
		if amt > AmountTol {
			out[el] = amt * factor
		}
	}
	return out
}

// Pure returns the single element symbol when the composition contains
// exactly one element, and reports whether it does.
func (c Composition) Pure() (string, bool) {
	els := c.Elements()
	if len(els) != 1 {
		return "", false
	}
	return els[0], true
}

// AlmostEquals reports whether two compositions have the same mole fractions
// within tol, element by element.
func (c Composition) AlmostEquals(other Composition, tol float64) bool {
	seen := map[string]bool{}
	for _, el := range c.Elements() {
		seen[el] = true
	}
	for _, el := range other.Elements() {
		seen[el] = true
	}
	for el := range seen {
		if math.Abs(c.Fraction(el)-other.Fraction(el)) > tol {
			return false
		}
	}
	return true
}

// Formula renders the composition with elements in alphabetical order and
// amounts trimmed of trailing zeros ("Fe2O3" → "Fe2 O3").
func (c Composition) Formula() string {
	parts := make([]string, 0, len(c))
	for _, el := range c.Elements() {
		parts = append(parts, el+trimAmount(c[el]))
	}
	return strings.Join(parts, " ")
}

// ReducedFormula renders the composition divided by the greatest common
// integer divisor of its amounts, with unit amounts omitted: {Fe: 4, O: 6}
// renders "Fe2O3" and {O: 4} renders "O". Non-integral amounts are rendered
// after normalizing the smallest amount to 1.
func (c Composition) ReducedFormula() string {
	els := c.Elements()
	if len(els) == 0 {
		return ""
	}
	amounts := make([]float64, len(els))
	for i, el := range els {
		amounts[i] = c[el]
	}
	if allNearIntegers(amounts) {
		g := 0
		for _, a := range amounts {
			g = gcd(g, int(math.Round(a)))
		}
		if g > 1 {
			for i := range amounts {
				amounts[i] = math.Round(amounts[i]) / float64(g)
			}
		}
	} else {
		// Normalize so the smallest amount is 1.
		minAmt := amounts[0]
		for _, a := range amounts[1:] {
			if a < minAmt {
				minAmt = a
			}
		}
		for i := range amounts {
			amounts[i] /= minAmt
		}
	}
	var b strings.Builder
	for i, el := range els {
		b.WriteString(el)
		if math.Abs(amounts[i]-1) > AmountTol {
			b.WriteString(trimAmount(amounts[i]))
		}
	}
	return b.String()
}

// trimAmount formats an amount without trailing zeros; integral amounts have
// no decimal point.
func trimAmount(a float64) string {
	if math.Abs(a-math.Round(a)) < AmountTol {
		return strconv.Itoa(int(math.Round(a)))
	}
	return strconv.FormatFloat(a, 'g', 6, 64)
}

func allNearIntegers(amounts []float64) bool {
	for _, a := range amounts {
		if math.Abs(a-math.Round(a)) > AmountTol {
			return false
		}
	}
	return true
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
