package chemical

import (
	"github.com/scienceol/labmate/pkg/core/activity"
)

type Source string

const (
	SourceLocal     Source = "local_database"
	SourcePubChem   Source = "pubchem"
	SourceUnknown   Source = "unknown"
	SourceLLM       Source = "llm"
	SourceMSDSLocal Source = "local" // MSDS 检索结果沿用的本地来源标记

	StatusSuccess = "success"
	StatusError   = "error"

	HistoryLimit = 50
)

type CalculateReq struct {
	Reagent     string  `json:"reagent"`
	ReagentName string  `json:"reagent_name"`
	Molarity    float64 `json:"molarity"`
	Volume      float64 `json:"volume"`
}

type EnhancedResult struct {
	*ReagentResult
	AdditionalData *ChemicalData `json:"additional_data"`
	DataSource     Source        `json:"data_source"`
}

type SearchReq struct {
	Query string `json:"query" form:"q"`
}

type SearchResult struct {
	Name        string   `json:"name"`
	Source      Source   `json:"source"`
	Formula     string   `json:"formula"`
	MolarMass   float64  `json:"molar_mass"`
	Hazards     []string `json:"hazards"`
	Description string   `json:"description"`
}

type SearchResp struct {
	Success bool            `json:"success"`
	Query   string          `json:"query"`
	Results []*SearchResult `json:"results"`
	Count   int             `json:"count"`
}

type DataReq struct {
	ChemicalName string `json:"chemical_name"`
	// UsePubChem 缺省为 true
	UsePubChem *bool `json:"use_pubchem"`
}

type NameReq struct {
	ChemicalName string `json:"chemical_name"`
}

// ChemicalData merges the local and PubChem field sets, only one of them
// is filled for a given source.
type ChemicalData struct {
	Formula          string   `json:"formula,omitempty"`
	MolarMass        float64  `json:"molar_mass,omitempty"`
	Hazards          []string `json:"hazards,omitempty"`
	Description      string   `json:"description,omitempty"`
	MolecularWeight  float64  `json:"molecular_weight,omitempty"`
	MolecularFormula string   `json:"molecular_formula,omitempty"`
	PubChemCID       int64    `json:"pubchem_cid,omitempty"`
	Smiles           string   `json:"smiles,omitempty"`
	IsomericSmiles   string   `json:"isomeric_smiles,omitempty"`
}

type DataResp struct {
	ChemicalName string        `json:"chemical_name"`
	Source       Source        `json:"source"`
	Data         *ChemicalData `json:"data"`
	Status       string        `json:"status"`
	ErrorMessage *string       `json:"error_message"`
}

type BasicProperties struct {
	Formula    string  `json:"formula"`
	MolarMass  float64 `json:"molar_mass"`
	PubChemCID *int64  `json:"pubchem_cid"`
}

type PhysicalProperties struct {
	Density      *string `json:"density"`
	BoilingPoint *string `json:"boiling_point"`
	HeatCapacity *string `json:"heat_capacity"`
}

type SafetyProperties struct {
	Hazards              []string `json:"hazards"`
	GHSData              *string  `json:"ghs_data"`
	SafetyClassification *string  `json:"safety_classification"`
}

type OtherProperties struct {
	Description string `json:"description"`
	Smiles      string `json:"smiles"`
}

type Properties struct {
	Basic    BasicProperties    `json:"basic"`
	Physical PhysicalProperties `json:"physical"`
	Safety   SafetyProperties   `json:"safety"`
	Other    OtherProperties    `json:"other"`
}

type SummaryResp struct {
	ChemicalName string     `json:"chemical_name"`
	DataSource   Source     `json:"data_source"`
	Properties   Properties `json:"properties"`
}

type PubChemResp struct {
	ChemicalName     string  `json:"chemical_name"`
	Status           string  `json:"status"`
	PubChemCID       int64   `json:"pubchem_cid,omitempty"`
	Title            string  `json:"title,omitempty"`
	MolecularWeight  float64 `json:"molecular_weight,omitempty"`
	MolecularFormula string  `json:"molecular_formula,omitempty"`
	Smiles           string  `json:"smiles,omitempty"`
	IsomericSmiles   string  `json:"isomeric_smiles,omitempty"`
	ErrorMessage     string  `json:"error_message,omitempty"`
}

type MSDSReq struct {
	Query    string `json:"query" form:"q"`
	UseLLM   *bool  `json:"use_llm" form:"llm"`
	ForceLLM bool   `json:"force_llm" form:"force_llm"`
	// Enhanced 由 POST 接口置位，缺省开启 LLM 并记为 Enhanced MSDS Search
	Enhanced bool `json:"-" form:"-"`
}

// MSDSRecord is either a local database hit or a sheet drafted by the
// assistant. MolarMass stays untyped since the assistant may answer with text.
type MSDSRecord struct {
	Name                string   `json:"name"`
	Formula             string   `json:"formula"`
	MolarMass           any      `json:"molar_mass"`
	Hazards             []string `json:"hazards"`
	SafetyPrecautions   []string `json:"safety_precautions,omitempty"`
	FirstAid            []string `json:"first_aid,omitempty"`
	StorageRequirements []string `json:"storage_requirements,omitempty"`
	DisposalMethods     []string `json:"disposal_methods,omitempty"`
	HealthEffects       []string `json:"health_effects,omitempty"`
	FireFighting        []string `json:"fire_fighting,omitempty"`
	SpillProcedures     []string `json:"spill_procedures,omitempty"`
	PersonalProtection  []string `json:"personal_protection,omitempty"`
	Source              Source   `json:"source"`
}

type MSDSResp struct {
	Success bool          `json:"success"`
	Query   string        `json:"query"`
	Results []*MSDSRecord `json:"results"`
	Count   int           `json:"count"`
	LLMUsed bool          `json:"llm_used"`
}

type HistoryResp struct {
	Success      bool                         `json:"success"`
	Calculations []*activity.CalculationEntry `json:"calculations"`
	Count        int                          `json:"count"`
}
