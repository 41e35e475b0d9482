package chemical

import (
	"math"
	"strconv"
	"strings"
)

type Chemical struct {
	Name        string   `json:"name"`
	Formula     string   `json:"formula"`
	MolarMass   float64  `json:"molar_mass"`
	Hazards     []string `json:"hazards"`
	Description string   `json:"description"`
}

var database = []Chemical{
	{Name: "Sodium Chloride", Formula: "NaCl", MolarMass: 58.44, Hazards: []string{"Irritant"},
		Description: "Common table salt, used in various laboratory procedures"},
	{Name: "Sodium Hydroxide", Formula: "NaOH", MolarMass: 39.997, Hazards: []string{"Corrosive", "Caustic"},
		Description: "Strong base, handle with extreme caution"},
	{Name: "Hydrochloric Acid", Formula: "HCl", MolarMass: 36.458, Hazards: []string{"Corrosive", "Toxic"},
		Description: "Strong acid, use in fume hood"},
	{Name: "Sulfuric Acid", Formula: "H2SO4", MolarMass: 98.079, Hazards: []string{"Corrosive", "Oxidizer"},
		Description: "Concentrated sulfuric acid, extremely dangerous"},
	{Name: "Glucose", Formula: "C6H12O6", MolarMass: 180.156, Hazards: []string{"None"},
		Description: "Simple sugar, generally safe to handle"},
	{Name: "Ethanol", Formula: "C2H5OH", MolarMass: 46.07, Hazards: []string{"Flammable", "Irritant"},
		Description: "Common alcohol, keep away from heat sources"},
	{Name: "Acetic Acid", Formula: "CH3COOH", MolarMass: 60.052, Hazards: []string{"Corrosive", "Flammable"},
		Description: "Weak acid, component of vinegar"},
	{Name: "Potassium Permanganate", Formula: "KMnO4", MolarMass: 158.034, Hazards: []string{"Oxidizer", "Irritant"},
		Description: "Strong oxidizing agent"},
	{Name: "Copper Sulfate", Formula: "CuSO4", MolarMass: 159.609, Hazards: []string{"Harmful", "Environmental"},
		Description: "Blue crystalline compound"},
	{Name: "Silver Nitrate", Formula: "AgNO3", MolarMass: 169.87, Hazards: []string{"Corrosive", "Oxidizer"},
		Description: "Photosensitive compound, store in dark"},
}

// All returns a copy of the local reagent database in catalog order.
func All() []Chemical {
	out := make([]Chemical, len(database))
	copy(out, database)
	return out
}

func Names() []string {
	names := make([]string, 0, len(database))
	for _, c := range database {
		names = append(names, c.Name)
	}
	return names
}

// Lookup matches a reagent name case-insensitively.
func Lookup(name string) (Chemical, bool) {
	name = strings.TrimSpace(name)
	for _, c := range database {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Chemical{}, false
}

// Mentioned returns the chemicals whose name or formula occurs in text.
func Mentioned(text string) []Chemical {
	lower := strings.ToLower(text)
	out := make([]Chemical, 0, 2)
	for _, c := range database {
		if strings.Contains(lower, strings.ToLower(c.Name)) || containsWord(text, c.Formula) {
			out = append(out, c)
		}
	}
	return out
}

// containsWord 化学式区分大小写，并要求不是更长化学式的一部分
func containsWord(text, word string) bool {
	for i := 0; ; {
		idx := strings.Index(text[i:], word)
		if idx < 0 {
			return false
		}
		start, end := i+idx, i+idx+len(word)
		if (start == 0 || !isAlnum(text[start-1])) && (end == len(text) || !isAlnum(text[end])) {
			return true
		}
		i = start + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

type ReagentResult struct {
	Reagent      string  `json:"reagent"`
	Formula      string  `json:"formula"`
	MolarMass    float64 `json:"molar_mass"`
	Molarity     float64 `json:"molarity"`
	VolumeML     float64 `json:"volume_ml"`
	VolumeL      float64 `json:"volume_l"`
	MolesNeeded  float64 `json:"moles_needed"`
	MassNeeded   float64 `json:"mass_needed"`
	Instructions string  `json:"instructions"`
}

// Reagent computes the mass of c needed for a solution of the given
// molarity (mol/L) and volume (mL).
func Reagent(c Chemical, molarity, volumeML float64) *ReagentResult {
	volumeL := volumeML / 1000
	moles := molarity * volumeL
	mass := moles * c.MolarMass
	return &ReagentResult{
		Reagent:     c.Name,
		Formula:     c.Formula,
		MolarMass:   c.MolarMass,
		Molarity:    molarity,
		VolumeML:    volumeML,
		VolumeL:     volumeL,
		MolesNeeded: moles,
		MassNeeded:  mass,
		Instructions: "Weigh " + strconv.FormatFloat(mass, 'f', 3, 64) + "g of " + c.Name +
			" and dissolve in distilled water. Transfer to a " + Number(volumeML) +
			"mL volumetric flask and dilute to mark.",
	}
}

// Number prints whole numbers with one decimal place ("100.0") and keeps
// the shortest exact form otherwise.
func Number(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
