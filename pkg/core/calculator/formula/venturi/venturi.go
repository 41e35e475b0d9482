// Package venturi calibrates a venturimeter against a collecting tank.
package venturi

import (
	"fmt"
	"math"
	"strings"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/utils"
)

// RequiredConstants lists the keys a calibration request must carry.
var RequiredConstants = []string{"d1", "d2", "tank_length", "tank_width", "water_height", "g", "conversion_factor"}

type Constants struct {
	D1               float64 `json:"d1"` // inlet diameter, mm
	D2               float64 `json:"d2"` // throat diameter, mm
	TankLength       float64 `json:"tank_length"`
	TankWidth        float64 `json:"tank_width"`
	WaterHeight      float64 `json:"water_height"`
	G                float64 `json:"g"`
	ConversionFactor float64 `json:"conversion_factor"`
}

// ParseConstants fails with "Missing constant: {name}" for the first absent key.
func ParseConstants(values map[string]float64) (Constants, error) {
	for _, k := range RequiredConstants {
		if _, ok := values[k]; !ok {
			return Constants{}, code.CalculationErr.WithMsgf("Missing constant: %s", k)
		}
	}
	return Constants{
		D1:               values["d1"],
		D2:               values["d2"],
		TankLength:       values["tank_length"],
		TankWidth:        values["tank_width"],
		WaterHeight:      values["water_height"],
		G:                values["g"],
		ConversionFactor: values["conversion_factor"],
	}, nil
}

// Validate requires every dimension and g to be positive.
func (c Constants) Validate() error {
	dims := []struct {
		name string
		v    float64
	}{
		{"d1", c.D1}, {"d2", c.D2},
		{"tank_length", c.TankLength}, {"tank_width", c.TankWidth}, {"water_height", c.WaterHeight},
		{"g", c.G},
	}
	for _, d := range dims {
		if !(d.v > 0) || !utils.Finite(d.v) {
			return code.CalculationErr.WithMsgf("Constant %s must be greater than zero", d.name)
		}
	}
	return nil
}

func (c Constants) A1() float64 {
	return math.Pi * math.Pow(c.D1/1000, 2) / 4
}

func (c Constants) A2() float64 {
	return math.Pi * math.Pow(c.D2/1000, 2) / 4
}

func (c Constants) TankArea() float64 {
	return c.TankLength * c.TankWidth
}

func (c Constants) Volume() float64 {
	return c.TankArea() * c.WaterHeight
}

type Reading struct {
	H1 float64 `json:"h1"` // cm
	H2 float64 `json:"h2"` // cm
	T  float64 `json:"t"`  // s
}

type Trial struct {
	Trial int     `json:"trial"`
	H1    float64 `json:"h1"`
	H2    float64 `json:"h2"`
	T     float64 `json:"t"`
	H     float64 `json:"H"`
	Qt    float64 `json:"Qt"`
	Qa    float64 `json:"Qa"`
	Cd    float64 `json:"Cd"`
}

type Summary struct {
	D1              float64 `json:"d1"`
	D2              float64 `json:"d2"`
	A1              float64 `json:"a1"`
	A2              float64 `json:"a2"`
	TankArea        float64 `json:"tank_area"`
	VolumeCollected float64 `json:"volume_collected"`
}

type Result struct {
	Trials    []Trial `json:"results"`
	MeanCd    float64 `json:"mean_cd"`
	Constants Summary `json:"constants"`
}

func Calculate(readings []Reading, c Constants) (*Result, error) {
	if len(readings) == 0 {
		return nil, code.CalculationErr.WithMsg("No readings provided")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a1, a2 := c.A1(), c.A2()
	if a1 <= a2 {
		return nil, code.CalculationErr.WithMsg("Inlet diameter must be larger than throat diameter for Venturimeter to work properly")
	}
	v := c.Volume()

	res := &Result{Trials: make([]Trial, 0, len(readings))}
	cds := make([]float64, 0, len(readings))
	for i, r := range readings {
		h := ((r.H1 - r.H2) / 100) * c.ConversionFactor
		if h <= 0 {
			return nil, code.CalculationErr.WithMsgf(
				"Trial %d: h1 (%g cm) must be greater than h2 (%g cm) for positive head. Current head: %.4f m",
				i+1, r.H1, r.H2, h)
		}
		if r.T <= 0 {
			return nil, code.CalculationErr.WithMsgf("Trial %d: time must be greater than zero", i+1)
		}

		qt := (a1 * a2 * math.Sqrt(2*c.G*h)) / math.Sqrt(a1*a1-a2*a2)
		qa := v / r.T
		cd := 0.0
		if qt != 0 {
			cd = qa / qt
		}
		if !utils.AllFinite(h, qt, qa, cd) {
			return nil, code.CalculationErr.WithMsgf("Trial %d: result is not a finite number, check the readings and constants", i+1)
		}
		cds = append(cds, cd)

		res.Trials = append(res.Trials, Trial{
			Trial: i + 1,
			H1:    r.H1,
			H2:    r.H2,
			T:     r.T,
			H:     utils.Round(h, 4),
			Qt:    utils.Round(qt, 6),
			Qa:    utils.Round(qa, 6),
			Cd:    utils.Round(cd, 4),
		})
	}

	res.MeanCd = utils.Round(utils.Mean(cds), 4)
	res.Constants = Summary{
		D1:              c.D1,
		D2:              c.D2,
		A1:              utils.Round(a1, 8),
		A2:              utils.Round(a2, 8),
		TankArea:        utils.Round(c.TankArea(), 4),
		VolumeCollected: utils.Round(v, 4),
	}
	return res, nil
}

func ModelCalculation(r Reading, c Constants) string {
	a1, a2 := c.A1(), c.A2()
	v := c.Volume()
	h := ((r.H1 - r.H2) / 100) * c.ConversionFactor
	qt := (a1 * a2 * math.Sqrt(2*c.G*h)) / math.Sqrt(a1*a1-a2*a2)
	qa := v / r.T

	steps := []string{
		"Step 1: Calculate areas",
		fmt.Sprintf("   Inlet area, a1 = πd1²/4 = π × (%.1f×10⁻³)²/4 = %.8f m²", c.D1, a1),
		fmt.Sprintf("   Throat area, a2 = πd2²/4 = π × (%.1f×10⁻³)²/4 = %.8f m²", c.D2, a2),
		"",
		"Step 2: Calculate volume collected",
		fmt.Sprintf("   V = Area of tank × Height = %.4f × %.2f = %.4f m³", c.TankArea(), c.WaterHeight, v),
		"",
		"Step 3: Calculate head of water",
		fmt.Sprintf("   H = [(h1 - h2)/100] × %g = [(%g - %g)/100] × %g = %.4f m", c.ConversionFactor, r.H1, r.H2, c.ConversionFactor, h),
		"",
		"Step 4: Calculate theoretical flow rate",
		"   Qt = (a1 × a2 × √(2gH)) / √(a1² - a2²)",
		fmt.Sprintf("   Qt = (%.8f × %.8f × √(2×%g×%.4f)) / √(%.10f - %.10f)", a1, a2, c.G, h, a1*a1, a2*a2),
		fmt.Sprintf("   Qt = %.6f m³/s", qt),
		"",
		"Step 5: Calculate actual flow rate",
		fmt.Sprintf("   Qa = V/t = %.4f/%g = %.6f m³/s", v, r.T, qa),
		"",
		"Step 6: Calculate discharge coefficient",
		fmt.Sprintf("   Cd = Qa/Qt = %.6f/%.6f = %.4f", qa, qt, qa/qt),
	}
	return strings.Join(steps, "\n")
}
