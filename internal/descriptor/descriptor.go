// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package descriptor computes molecular descriptors from SMILES strings:
// molecular weight, a calculated partition coefficient, and Lipinski
// hydrogen-bond donor/acceptor counts. All computations are pure
// functions of the parsed molecular graph.
package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/compound-etl/pkg/types"
)

// Sentinel errors for the transform stage. Callers match with errors.Is.
var (
	// ErrInvalidInput reports an empty or blank SMILES string.
	ErrInvalidInput = errors.New("invalid SMILES input")

	// ErrParse reports a SMILES string that does not describe a valid
	// molecule.
	ErrParse = errors.New("unparseable SMILES")
)

// Compute parses smiles and returns the full descriptor set. The result
// is deterministic: the same input always yields bit-identical values.
// On a parse failure nothing is computed.
func Compute(smiles string) (types.DescriptorSet, error) {
	if strings.TrimSpace(smiles) == "" {
		return types.DescriptorSet{}, fmt.Errorf("%w: empty string", ErrInvalidInput)
	}
	mol, err := parseSMILES(smiles)
	if err != nil {
		return types.DescriptorSet{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return types.DescriptorSet{
		MolWt:         molecularWeight(mol),
		LogP:          crippenLogP(mol),
		NumHDonors:    hDonors(mol),
		NumHAcceptors: hAcceptors(mol),
	}, nil
}

// molecularWeight sums standard atomic weights over heavy atoms and
// their attached hydrogens.
func molecularWeight(m *molecule) float64 {
	total := 0.0
	for _, a := range m.atoms {
		total += atomicWeights[a.element]
		total += float64(a.hydrogens()) * atomicWeights["H"]
	}
	return total
}

// hDonors counts nitrogen and oxygen atoms carrying at least one
// hydrogen (Lipinski donor definition).
func hDonors(m *molecule) int {
	count := 0
	for _, a := range m.atoms {
		if (a.element == "N" || a.element == "O") && a.hydrogens() > 0 {
			count++
		}
	}
	return count
}

// hAcceptors counts nitrogen and oxygen atoms (Lipinski acceptor
// definition).
func hAcceptors(m *molecule) int {
	count := 0
	for _, a := range m.atoms {
		if a.element == "N" || a.element == "O" {
			count++
		}
	}
	return count
}

// crippenLogP estimates the octanol/water partition coefficient by
// summing per-atom contributions. The table is a Wildman-Crippen-derived
// set collapsed to a compact atom typing; the exact value is less
// important than its stability across calls.
func crippenLogP(m *molecule) float64 {
	total := 0.0
	for i, a := range m.atoms {
		total += heavyContribution(m, i, a)
		total += float64(a.hydrogens()) * hydrogenContribution(a.element)
	}
	return total
}

func heavyContribution(m *molecule, i int, a *atom) float64 {
	switch a.element {
	case "C":
		if a.aromatic {
			return 0.1581
		}
		if hasHeteroNeighbor(m, i) {
			return -0.2035
		}
		return 0.1441
	case "N":
		if a.aromatic {
			return -0.3239
		}
		return -1.0190
	case "O":
		if a.aromatic {
			return 0.1552
		}
		switch {
		case hasDoubleBond(m, i):
			return -0.1526 // carbonyl / oxo
		case a.hydrogens() > 0:
			return -0.2893 // hydroxyl
		default:
			return -0.0684 // ether
		}
	case "S":
		if a.aromatic {
			return 0.6237
		}
		return 0.6482
	case "P":
		return 0.8612
	case "F":
		return 0.4202
	case "Cl":
		return 0.6895
	case "Br":
		return 0.8456
	case "I":
		return 0.8857
	default:
		return -0.0025
	}
}

func hydrogenContribution(element string) float64 {
	switch element {
	case "C":
		return 0.1230
	case "N", "O":
		return -0.2677
	default:
		return 0.1125
	}
}

// hasHeteroNeighbor reports whether atom i is bonded to anything other
// than carbon or hydrogen.
func hasHeteroNeighbor(m *molecule, i int) bool {
	for _, n := range m.neighbors(i) {
		el := m.atoms[n.idx].element
		if el != "C" && el != "H" {
			return true
		}
	}
	return false
}

// hasDoubleBond reports whether atom i participates in a double bond.
func hasDoubleBond(m *molecule, i int) bool {
	for _, n := range m.neighbors(i) {
		if n.order == orderDouble {
			return true
		}
	}
	return false
}
