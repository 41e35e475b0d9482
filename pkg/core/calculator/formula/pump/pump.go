// Package pump evaluates centrifugal pump test runs measured with a
// collecting tank and an energy meter.
package pump

import (
	"fmt"
	"strings"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/utils"
)

type Constants struct {
	NRevolutions float64 `json:"n_revolutions"`
	EcRevKWh     float64 `json:"Ec_rev_kwh"`
	EtaT         float64 `json:"eta_T"`
	Rho          float64 `json:"rho_kg_m3"`
	G            float64 `json:"g_ms2"`
	A            float64 `json:"A_m2"`
	H            float64 `json:"h_m"`
	X            float64 `json:"X_m"`
}

func DefaultConstants() Constants {
	return Constants{
		NRevolutions: 10,
		EcRevKWh:     750,
		EtaT:         0.75,
		Rho:          1000,
		G:            9.81,
		A:            0.49,
		H:            0.1,
		X:            0.31,
	}
}

// Validate rejects constants that would divide by zero or give negative flow.
func (c Constants) Validate() error {
	dims := []struct {
		name string
		v    float64
	}{
		{"Ec_rev_kwh", c.EcRevKWh}, {"A_m2", c.A}, {"h_m", c.H},
	}
	for _, d := range dims {
		if !(d.v > 0) || !utils.Finite(d.v) {
			return code.CalculationErr.WithMsgf("Constant %s must be greater than zero", d.name)
		}
	}
	return nil
}

func (c Constants) Override(values map[string]float64) Constants {
	fields := map[string]*float64{
		"n_revolutions": &c.NRevolutions,
		"Ec_rev_kwh":    &c.EcRevKWh,
		"eta_T":         &c.EtaT,
		"rho_kg_m3":     &c.Rho,
		"g_ms2":         &c.G,
		"A_m2":          &c.A,
		"h_m":           &c.H,
		"X_m":           &c.X,
	}
	for k, v := range values {
		if f, ok := fields[k]; ok {
			*f = v
		}
	}
	return c
}

// Reading is one trial: pressure gauge (kg/cm²), vacuum gauge (mmHg),
// time to fill h metres of tank and time for n energy meter revolutions.
type Reading struct {
	PG float64 `json:"P.G."`
	VG float64 `json:"V.G."`
	T  float64 `json:"t"`
	Tn float64 `json:"t_n"`
}

type Trial struct {
	Trial      int     `json:"trial"`
	PG         float64 `json:"pg"`
	VG         float64 `json:"vg"`
	Head       float64 `json:"head_m"`
	Flow       float64 `json:"flow_m3_s"`
	Input      float64 `json:"input_kw"`
	Output     float64 `json:"output_kw"`
	Efficiency float64 `json:"efficiency"`
}

type Result struct {
	Trials         []Trial `json:"results"`
	MeanEfficiency float64 `json:"mean_efficiency"`
}

type values struct {
	head, flow, input, output, eta float64
}

func compute(r Reading, c Constants) values {
	v := values{
		head:  r.PG*10.33 + (r.VG*10.33)/760 + c.X,
		flow:  (c.A * c.H) / r.T,
		input: (c.NRevolutions * 3600 * c.EtaT) / (r.Tn * c.EcRevKWh),
	}
	v.output = (c.Rho * c.G * v.flow * v.head) / 1000
	if v.input > 0 {
		v.eta = v.output / v.input * 100
	}
	return v
}

func Calculate(readings []Reading, c Constants) (*Result, error) {
	if len(readings) == 0 {
		return nil, code.CalculationErr.WithMsg("No trials provided")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Trials: make([]Trial, 0, len(readings))}
	effs := make([]float64, 0, len(readings))
	for i, r := range readings {
		if r.T <= 0 || r.Tn <= 0 {
			return nil, code.CalculationErr.WithMsgf("Trial %d: t and t_n must be greater than zero", i+1)
		}
		v := compute(r, c)
		if !utils.AllFinite(v.head, v.flow, v.input, v.output, v.eta) {
			return nil, code.CalculationErr.WithMsgf("Trial %d: result is not a finite number, check the readings and constants", i+1)
		}
		t := Trial{
			Trial:      i + 1,
			PG:         utils.Round(r.PG, 2),
			VG:         utils.Round(r.VG, 1),
			Head:       utils.Round(v.head, 4),
			Flow:       utils.Round(v.flow, 6),
			Input:      utils.Round(v.input, 4),
			Output:     utils.Round(v.output, 4),
			Efficiency: utils.Round(v.eta, 2),
		}
		if t.Efficiency > 0 {
			effs = append(effs, t.Efficiency)
		}
		res.Trials = append(res.Trials, t)
	}
	res.MeanEfficiency = utils.Round(utils.Mean(effs), 2)
	return res, nil
}

// ModelCalculation uses the raw readings of the first trial.
func ModelCalculation(r Reading, c Constants) string {
	v := compute(r, c)
	steps := []string{
		"Step 1: Calculate Pressure Head (H)",
		"   H = [P.G. × 10.33] + [(V.G. × 10.33) / 760] + X",
		fmt.Sprintf("   H = [%g × 10.33] + [(%g) × 10.33 / 760] + %g", r.PG, r.VG, c.X),
		fmt.Sprintf("   H = %.4f m of H₂O", v.head),
		"",
		"Step 2: Calculate Flow Rate (Q)",
		"   Q = (A × h) / t",
		fmt.Sprintf("   Q = (%g m² × %g m) / %g s = %.6f m³/s", c.A, c.H, r.T, v.flow),
		"",
		"Step 3: Calculate Input Power (I/P)",
		"   I/P = [n × 3600 × η_T] / [t_n × E_c]",
		fmt.Sprintf("   I/P = [%g × 3600 × %g] / [%g s × %g] = %.4f kW", c.NRevolutions, c.EtaT, r.Tn, c.EcRevKWh, v.input),
		"",
		"Step 4: Calculate Output Power (O/P)",
		"   O/P = [ρ × g × Q × H] / 1000",
		fmt.Sprintf("   O/P = [%g × %g × %.6f × %.4f] / 1000 = %.4f kW", c.Rho, c.G, v.flow, v.head, v.output),
		"",
		"Step 5: Calculate Efficiency (η)",
		"   η = [O/P / I/P] × 100",
		fmt.Sprintf("   η = [%.4f / %.4f] × 100 = %.2f%%", v.output, v.input, v.eta),
	}
	return strings.Join(steps, "\n")
}
