// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package descriptor

import (
	"fmt"
)

// Bond orders. Aromatic bonds are tracked separately because they
// contribute a single unit to the valence sum.
const (
	orderSingle   = 1
	orderDouble   = 2
	orderTriple   = 3
	orderAromatic = 4
)

type atom struct {
	element  string
	aromatic bool
	charge   int
	isotope  int

	// explicitH is the bracket-specified hydrogen count, or -1 when the
	// atom was written without brackets and hydrogens are implicit.
	explicitH int
	implicitH int
}

// hydrogens returns the total hydrogen count on the atom.
func (a *atom) hydrogens() int {
	if a.explicitH >= 0 {
		return a.explicitH
	}
	return a.implicitH
}

type bond struct {
	a, b  int
	order int
}

type molecule struct {
	atoms []*atom
	bonds []bond
}

type neighbor struct {
	idx   int
	order int
}

// neighbors returns the indices and bond orders of atoms bonded to i.
func (m *molecule) neighbors(i int) []neighbor {
	var ns []neighbor
	for _, b := range m.bonds {
		switch i {
		case b.a:
			ns = append(ns, neighbor{idx: b.b, order: b.order})
		case b.b:
			ns = append(ns, neighbor{idx: b.a, order: b.order})
		}
	}
	return ns
}

// atomicWeights holds standard average atomic weights (g/mol) for the
// elements the parser accepts. Unknown element symbols are a parse error.
var atomicWeights = map[string]float64{
	"H": 1.008, "Li": 6.94, "B": 10.81, "C": 12.011, "N": 14.007,
	"O": 15.999, "F": 18.998, "Na": 22.990, "Mg": 24.305, "Si": 28.085,
	"P": 30.974, "S": 32.06, "Cl": 35.45, "K": 39.098, "Ca": 40.078,
	"Fe": 55.845, "Zn": 65.38, "Se": 78.971, "Br": 79.904, "I": 126.904,
}

// defaultValences lists allowed valences for organic-subset atoms,
// smallest first. Implicit hydrogens fill the gap to the smallest
// valence that accommodates the bond order sum.
var defaultValences = map[string][]int{
	"B": {3}, "C": {4}, "N": {3, 5}, "O": {2},
	"P": {3, 5}, "S": {2, 4, 6},
	"F": {1}, "Cl": {1}, "Br": {1}, "I": {1},
}

type ringRef struct {
	atom  int
	order int
}

// parseSMILES builds a molecular graph from a SMILES string. It accepts
// the organic subset, bracket atoms, branches, ring closures (single
// digit and %nn), explicit bond symbols, and dot-separated fragments.
// Stereochemistry markers are read and discarded; none of the computed
// descriptors depend on them.
func parseSMILES(s string) (*molecule, error) {
	m := &molecule{}
	prev := -1
	pending := 0
	var stack []int
	open := map[int]ringRef{}

	// attach bonds the new atom at index idx to the previous atom,
	// consuming any pending bond symbol.
	attach := func(idx int) {
		if prev >= 0 {
			order := pending
			if order == 0 {
				order = orderSingle
				if m.atoms[prev].aromatic && m.atoms[idx].aromatic {
					order = orderAromatic
				}
			}
			m.bonds = append(m.bonds, bond{a: prev, b: idx, order: order})
		}
		pending = 0
		prev = idx
	}

	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == '(':
			if prev < 0 {
				return nil, fmt.Errorf("branch opened at position %d with no preceding atom", i)
			}
			stack = append(stack, prev)
			i++
		case ch == ')':
			if len(stack) == 0 {
				return nil, fmt.Errorf("unmatched branch close at position %d", i)
			}
			prev = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i++
		case ch == '-':
			pending = orderSingle
			i++
		case ch == '=':
			pending = orderDouble
			i++
		case ch == '#':
			pending = orderTriple
			i++
		case ch == ':':
			pending = orderAromatic
			i++
		case ch == '/' || ch == '\\':
			// Directional bonds encode double-bond geometry only.
			pending = orderSingle
			i++
		case ch == '.':
			if pending != 0 {
				return nil, fmt.Errorf("bond symbol before fragment separator at position %d", i)
			}
			prev = -1
			i++
		case ch == '%' || (ch >= '0' && ch <= '9'):
			num, width, err := ringNumber(s, i)
			if err != nil {
				return nil, err
			}
			if prev < 0 {
				return nil, fmt.Errorf("ring closure at position %d with no preceding atom", i)
			}
			if ref, ok := open[num]; ok {
				if ref.atom == prev {
					return nil, fmt.Errorf("ring bond %d closes on its own atom", num)
				}
				order := pending
				if order == 0 {
					order = ref.order
				}
				if order == 0 {
					order = orderSingle
					if m.atoms[ref.atom].aromatic && m.atoms[prev].aromatic {
						order = orderAromatic
					}
				}
				m.bonds = append(m.bonds, bond{a: ref.atom, b: prev, order: order})
				delete(open, num)
			} else {
				open[num] = ringRef{atom: prev, order: pending}
			}
			pending = 0
			i += width
		case ch == '[':
			a, width, err := parseBracketAtom(s[i:])
			if err != nil {
				return nil, fmt.Errorf("position %d: %w", i, err)
			}
			m.atoms = append(m.atoms, a)
			attach(len(m.atoms) - 1)
			i += width
		default:
			a, width, err := parseOrganicAtom(s[i:])
			if err != nil {
				return nil, fmt.Errorf("position %d: %w", i, err)
			}
			m.atoms = append(m.atoms, a)
			attach(len(m.atoms) - 1)
			i += width
		}
	}

	if len(m.atoms) == 0 {
		return nil, fmt.Errorf("no atoms")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed branch")
	}
	if len(open) != 0 {
		return nil, fmt.Errorf("unclosed ring bond")
	}
	if pending != 0 {
		return nil, fmt.Errorf("dangling bond symbol")
	}
	if err := m.assignHydrogens(); err != nil {
		return nil, err
	}
	return m, nil
}

// ringNumber reads a ring closure label at position i: a single digit,
// or %nn for two-digit labels.
func ringNumber(s string, i int) (num, width int, err error) {
	if s[i] != '%' {
		return int(s[i] - '0'), 1, nil
	}
	if i+2 >= len(s) || !isDigit(s[i+1]) || !isDigit(s[i+2]) {
		return 0, 0, fmt.Errorf("malformed %%nn ring closure at position %d", i)
	}
	return int(s[i+1]-'0')*10 + int(s[i+2]-'0'), 3, nil
}

// parseOrganicAtom reads an organic-subset atom at the start of s:
// B, C, N, O, P, S, F, Cl, Br, I, or aromatic b, c, n, o, p, s.
func parseOrganicAtom(s string) (*atom, int, error) {
	// Two-letter symbols first so "Cl" is not read as carbon.
	if len(s) >= 2 {
		switch s[:2] {
		case "Cl", "Br":
			return &atom{element: s[:2], explicitH: -1}, 2, nil
		}
	}
	switch s[0] {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		return &atom{element: s[:1], explicitH: -1}, 1, nil
	case 'b', 'c', 'n', 'o', 'p', 's':
		return &atom{element: string(s[0] - 'a' + 'A'), aromatic: true, explicitH: -1}, 1, nil
	}
	return nil, 0, fmt.Errorf("unexpected character %q", s[0])
}

// parseBracketAtom reads a bracket atom expression starting at s[0]=='['
// and returns the atom and the number of bytes consumed. Bracket atoms
// state their hydrogen count explicitly; no implicit hydrogens are added.
func parseBracketAtom(s string) (*atom, int, error) {
	end := -1
	for j := 1; j < len(s); j++ {
		if s[j] == ']' {
			end = j
			break
		}
	}
	if end < 0 {
		return nil, 0, fmt.Errorf("unclosed bracket atom")
	}
	body := s[1:end]
	a := &atom{explicitH: 0}

	j := 0
	for j < len(body) && isDigit(body[j]) {
		a.isotope = a.isotope*10 + int(body[j]-'0')
		j++
	}

	if j >= len(body) {
		return nil, 0, fmt.Errorf("bracket atom with no element symbol")
	}
	switch {
	case body[j] >= 'A' && body[j] <= 'Z':
		sym := body[j : j+1]
		j++
		if j < len(body) && body[j] >= 'a' && body[j] <= 'z' {
			// Second letter of a two-letter symbol, e.g. Cl, Na, Se.
			if _, ok := atomicWeights[sym+body[j:j+1]]; ok {
				sym += body[j : j+1]
				j++
			}
		}
		a.element = sym
	case body[j] == 'b' || body[j] == 'c' || body[j] == 'n' ||
		body[j] == 'o' || body[j] == 'p' || body[j] == 's':
		a.element = string(body[j] - 'a' + 'A')
		a.aromatic = true
		j++
		if j < len(body) && body[j] == 'e' && a.element == "S" {
			a.element = "Se"
			j++
		}
	default:
		return nil, 0, fmt.Errorf("bracket atom with no element symbol")
	}
	if _, ok := atomicWeights[a.element]; !ok {
		return nil, 0, fmt.Errorf("unknown element %q", a.element)
	}

	for j < len(body) {
		switch {
		case body[j] == '@':
			j++
		case body[j] == 'H':
			j++
			a.explicitH = 1
			if j < len(body) && isDigit(body[j]) {
				a.explicitH = int(body[j] - '0')
				j++
			}
		case body[j] == '+' || body[j] == '-':
			sign := 1
			if body[j] == '-' {
				sign = -1
			}
			count := 0
			for j < len(body) && (body[j] == '+' || body[j] == '-') {
				count++
				j++
			}
			if j < len(body) && isDigit(body[j]) {
				count = int(body[j] - '0')
				j++
			}
			a.charge = sign * count
		case body[j] == ':':
			// Atom class label; carried by reaction SMILES, ignored here.
			j++
			for j < len(body) && isDigit(body[j]) {
				j++
			}
		default:
			return nil, 0, fmt.Errorf("unexpected %q in bracket atom", body[j])
		}
	}

	return a, end + 1, nil
}

// assignHydrogens fills implicit hydrogen counts for organic-subset
// atoms from the valence tables. An aromatic atom counts one extra bond
// for its share of the delocalized ring system. A bond order sum that
// exceeds every allowed valence is a parse error.
func (m *molecule) assignHydrogens() error {
	sums := make([]int, len(m.atoms))
	for _, b := range m.bonds {
		o := b.order
		if o == orderAromatic {
			o = 1
		}
		sums[b.a] += o
		sums[b.b] += o
	}

	for i, a := range m.atoms {
		if a.explicitH >= 0 {
			continue
		}
		sum := sums[i]
		if a.aromatic {
			sum++
		}
		valences, ok := defaultValences[a.element]
		if !ok {
			return fmt.Errorf("element %s requires a bracket atom", a.element)
		}
		a.implicitH = -1
		for _, v := range valences {
			if sum <= v {
				a.implicitH = v - sum
				break
			}
		}
		if a.implicitH < 0 {
			return fmt.Errorf("bond order sum %d exceeds valence of %s", sum, a.element)
		}
	}
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
