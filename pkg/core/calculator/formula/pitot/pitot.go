// Package pitot computes the velocity coefficient of a pitot tube from
// inclined manometer readings taken at an orifice and at the pitot tube.
package pitot

import (
	"fmt"
	"math"
	"strings"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/utils"
)

type Constants struct {
	Cd0   float64 `json:"Cd0"`
	D0    float64 `json:"d0"` // orifice diameter, mm
	D     float64 `json:"D"`  // pipe diameter, mm
	RhoM  float64 `json:"rho_m"`
	Rho   float64 `json:"rho"`
	G     float64 `json:"g"`
	Sin25 float64 `json:"sin25"`
	Sin15 float64 `json:"sin15"`
}

func DefaultConstants() Constants {
	return Constants{
		Cd0:   0.62,
		D0:    30,
		D:     35,
		RhoM:  1000,
		Rho:   1.2,
		G:     9.81,
		Sin25: 0.422,
		Sin15: 0.258,
	}
}

// Override replaces the constants named in values, unknown keys are ignored.
func (c Constants) Override(values map[string]float64) Constants {
	fields := map[string]*float64{
		"Cd0":   &c.Cd0,
		"d0":    &c.D0,
		"D":     &c.D,
		"rho_m": &c.RhoM,
		"rho":   &c.Rho,
		"g":     &c.G,
		"sin25": &c.Sin25,
		"sin15": &c.Sin15,
	}
	for k, v := range values {
		if f, ok := fields[k]; ok {
			*f = v
		}
	}
	return c
}

// Ao is the orifice area in m².
func (c Constants) Ao() float64 {
	return math.Pi * math.Pow(c.D0/1000, 2) / 4
}

// A is the pipe area in m².
func (c Constants) A() float64 {
	return math.Pi * math.Pow(c.D/1000, 2) / 4
}

// Reading is one pair of manometer readings (mm) and the values derived from it.
type Reading struct {
	L1o float64 `json:"l1o"`
	L2o float64 `json:"l2o"`
	L1p float64 `json:"l1p"`
	L2p float64 `json:"l2p"`
	Ha0 float64 `json:"Ha0"`
	V0  float64 `json:"V0"`
	Hap float64 `json:"Hap"`
	Vp  float64 `json:"Vp"`
	Cv  float64 `json:"Cv"`
}

// Param returns one of V0, Vp, Ha0 or Hap.
func (r Reading) Param(name string) (float64, bool) {
	switch name {
	case "V0":
		return r.V0, true
	case "Vp":
		return r.Vp, true
	case "Ha0":
		return r.Ha0, true
	case "Hap":
		return r.Hap, true
	}
	return 0, false
}

var ParamLabels = map[string]string{
	"V0":  "V0 (m/s)",
	"Vp":  "Vp (m/s)",
	"Ha0": "Ha0 (m)",
	"Hap": "Hap (m)",
}

type Result struct {
	Readings  []Reading `json:"results"`
	MeanCv    float64   `json:"mean_cv"`
	Constants Constants `json:"constants"`
}

func Single(c Constants, l1o, l2o, l1p, l2p float64) Reading {
	ha0 := math.Max(((l2o-l1o)*c.Sin25*c.RhoM)/(100*c.Rho), 0)
	v0 := c.Cd0 * c.Ao() * math.Sqrt(2*c.G*ha0) / c.A()

	hap := math.Max(((l2p-l1p)*c.Sin15*c.RhoM)/(100*c.Rho), 0)
	vp := math.Sqrt(2 * c.G * hap)

	cv := 0.0
	if vp > 0 {
		cv = v0 / vp
	}

	return Reading{
		L1o: l1o,
		L2o: l2o,
		L1p: l1p,
		L2p: l2p,
		Ha0: utils.Sanitize(ha0),
		V0:  utils.Sanitize(v0),
		Hap: utils.Sanitize(hap),
		Vp:  utils.Sanitize(vp),
		Cv:  utils.Sanitize(cv),
	}
}

// Calculate processes paired orifice and pitot readings, each given as (l1, l2).
func Calculate(orifice, pitot [][2]float64, c Constants) (*Result, error) {
	if len(orifice) == 0 || len(pitot) == 0 {
		return nil, code.CalculationErr.WithMsg("No readings provided")
	}
	if len(orifice) != len(pitot) {
		return nil, code.CalculationErr.WithMsg("Mismatched number of orifice and pitot readings")
	}

	res := &Result{Readings: make([]Reading, 0, len(orifice)), Constants: c}
	positive := make([]float64, 0, len(orifice))
	for i := range orifice {
		r := Single(c, orifice[i][0], orifice[i][1], pitot[i][0], pitot[i][1])
		res.Readings = append(res.Readings, r)
		if r.Cv > 0 {
			positive = append(positive, r.Cv)
		}
	}
	res.MeanCv = utils.Sanitize(utils.Mean(positive))
	return res, nil
}

// ModelCalculation walks through the first reading step by step.
func ModelCalculation(r Reading, c Constants) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model Calculation for Reading 1:\n\n")
	fmt.Fprintf(&b, "Given:\n")
	fmt.Fprintf(&b, "- Orifice manometer readings: l1o = %g mm, l2o = %g mm\n", r.L1o, r.L2o)
	fmt.Fprintf(&b, "- Pitot tube manometer readings: l1p = %g mm, l2p = %g mm\n", r.L1p, r.L2p)
	fmt.Fprintf(&b, "- Constants: Cd0 = %g, d0 = %g mm, D = %g mm\n", c.Cd0, c.D0, c.D)
	fmt.Fprintf(&b, "- rho_m = %g kg/m³, rho = %g kg/m³, g = %g m/s²\n\n", c.RhoM, c.Rho, c.G)

	fmt.Fprintf(&b, "Step 1: Calculate areas\n")
	fmt.Fprintf(&b, "Ao = π × (d0/1000)² / 4 = π × (%g/1000)² / 4 = %.6f m²\n", c.D0, c.Ao())
	fmt.Fprintf(&b, "A = π × (D/1000)² / 4 = π × (%g/1000)² / 4 = %.6f m²\n\n", c.D, c.A())

	fmt.Fprintf(&b, "Step 2: Calculate Ha0 (Head at orifice)\n")
	fmt.Fprintf(&b, "Ha0 = [(l2o - l1o) × sin25° × rho_m] / (100 × rho)\n")
	fmt.Fprintf(&b, "Ha0 = [(%g - %g) × %g × %g] / (100 × %g)\n", r.L2o, r.L1o, c.Sin25, c.RhoM, c.Rho)
	fmt.Fprintf(&b, "Ha0 = [%g × %g × %g] / %g\n", r.L2o-r.L1o, c.Sin25, c.RhoM, 100*c.Rho)
	fmt.Fprintf(&b, "Ha0 = %.4f m\n\n", r.Ha0)

	fmt.Fprintf(&b, "Step 3: Calculate V0 (Velocity at orifice)\n")
	fmt.Fprintf(&b, "V0 = [Cd0 × Ao × √(2 × g × Ha0)] / A\n")
	fmt.Fprintf(&b, "V0 = [%g × %.6f × √(2 × %g × %.4f)] / %.6f\n", c.Cd0, c.Ao(), c.G, r.Ha0, c.A())
	fmt.Fprintf(&b, "V0 = %.4f m/s\n\n", r.V0)

	fmt.Fprintf(&b, "Step 4: Calculate Hap (Head at pitot tube)\n")
	fmt.Fprintf(&b, "Hap = [(l2p - l1p) × sin15° × rho_m] / (100 × rho)\n")
	fmt.Fprintf(&b, "Hap = [(%g - %g) × %g × %g] / (100 × %g)\n", r.L2p, r.L1p, c.Sin15, c.RhoM, c.Rho)
	fmt.Fprintf(&b, "Hap = [%g × %g × %g] / %g\n", r.L2p-r.L1p, c.Sin15, c.RhoM, 100*c.Rho)
	fmt.Fprintf(&b, "Hap = %.4f m\n\n", r.Hap)

	fmt.Fprintf(&b, "Step 5: Calculate Vp (Velocity at pitot tube)\n")
	fmt.Fprintf(&b, "Vp = √(2 × g × Hap)\n")
	fmt.Fprintf(&b, "Vp = √(2 × %g × %.4f)\n", c.G, r.Hap)
	fmt.Fprintf(&b, "Vp = %.4f m/s\n\n", r.Vp)

	fmt.Fprintf(&b, "Step 6: Calculate Cv (Velocity coefficient)\n")
	fmt.Fprintf(&b, "Cv = V0 / Vp\n")
	fmt.Fprintf(&b, "Cv = %.4f / %.4f\n", r.V0, r.Vp)
	fmt.Fprintf(&b, "Cv = %.4f\n", r.Cv)
	return b.String()
}
