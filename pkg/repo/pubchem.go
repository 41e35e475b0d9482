package repo

import "context"

// CompoundInfo holds the PubChem properties LabMate shows for a compound.
type CompoundInfo struct {
	CID              int64   `json:"cid"`
	Name             string  `json:"name"`
	MolecularFormula string  `json:"molecular_formula"`
	MolecularWeight  float64 `json:"molecular_weight"`
	CanonicalSMILES  string  `json:"canonical_smiles"`
	IsomericSMILES   string  `json:"isomeric_smiles"`
}

type PubChemRepo interface {
	GetCompoundByName(ctx context.Context, name string) (*CompoundInfo, error)
}
