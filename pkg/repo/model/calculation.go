package model

import "gorm.io/datatypes"

type CalcKind string

const (
	CalcReagent CalcKind = "reagent"
	CalcPitot   CalcKind = "pitot"
	CalcVenturi CalcKind = "venturi"
	CalcPump    CalcKind = "pump"
	CalcWater   CalcKind = "water"
	CalcOilGas  CalcKind = "oilgas"
)

// Calculation is one persisted calculator run. MassNeeded holds the
// primary scalar result, grams for reagents and a mean coefficient or
// efficiency for the engineering calculators.
type Calculation struct {
	BaseModel
	UserID     int64          `gorm:"not null;index:idx_calc_user_id" json:"user_id"`
	Kind       CalcKind       `gorm:"type:varchar(20);not null;default:'reagent';index:idx_calc_kind" json:"kind"`
	Reagent    string         `gorm:"type:varchar(100)" json:"reagent"`
	Formula    string         `gorm:"type:varchar(50)" json:"formula"`
	Molarity   float64        `json:"molarity"`
	Volume     float64        `json:"volume"`
	MassNeeded float64        `json:"mass_needed"`
	Inputs     datatypes.JSON `json:"inputs"`
	Outputs    datatypes.JSON `json:"outputs"`
}

func (*Calculation) TableName() string { return "calculations" }
