// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CompoundRecord holds the result of a PubChem lookup: the queried name
// and the connectivity SMILES extracted from the first compound entry.
type CompoundRecord struct {
	// Name is the compound name as queried (e.g. "aspirin").
	Name string `json:"name" yaml:"name" bson:"name"`

	// SMILES is the connectivity SMILES string for the compound.
	SMILES string `json:"smiles" yaml:"smiles" bson:"smiles"`
}

// DescriptorSet holds the molecular descriptors computed from a SMILES
// string. The four values are always produced together; a failed parse
// produces none of them.
type DescriptorSet struct {
	// MolWt is the average molecular weight in g/mol.
	MolWt float64 `json:"MolWt" yaml:"MolWt" bson:"MolWt"`

	// LogP is an atomic-contribution estimate of the octanol/water
	// partition coefficient.
	LogP float64 `json:"LogP" yaml:"LogP" bson:"LogP"`

	// NumHDonors is the Lipinski hydrogen-bond donor count: N or O
	// atoms carrying at least one hydrogen.
	NumHDonors int `json:"NumHDonors" yaml:"NumHDonors" bson:"NumHDonors"`

	// NumHAcceptors is the Lipinski hydrogen-bond acceptor count:
	// the number of N and O atoms.
	NumHAcceptors int `json:"NumHAcceptors" yaml:"NumHAcceptors" bson:"NumHAcceptors"`
}

// CompoundDocument is the document written by the load stage. The field
// names match the stored shape: {name, smiles, descriptors:{...}}.
type CompoundDocument struct {
	Name        string        `json:"name" yaml:"name" bson:"name"`
	SMILES      string        `json:"smiles" yaml:"smiles" bson:"smiles"`
	Descriptors DescriptorSet `json:"descriptors" yaml:"descriptors" bson:"descriptors"`
}
