// Package water analyses water treatment plant (WTP) trial readings against
// the usual potable water design ranges.
package water

import (
	"fmt"
	"strings"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/input"
	"github.com/scienceol/labmate/pkg/utils"
)

const (
	G          = 9.81
	Rho        = 1000
	M3DayToLS  = 0.011574
	secondsDay = 86400
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	RangeDT  = Range{Min: 2, Max: 4}     // hours
	RangeSLR = Range{Min: 20, Max: 40}   // m³/m²·day
	RangeFLR = Range{Min: 120, Max: 240} // m³/m²·day
)

// FlowLS converts m³/day to L/s.
func FlowLS(m3Day float64) float64 {
	return utils.Round(m3Day*M3DayToLS, 2)
}

// FlowM3Day converts L/s to m³/day.
func FlowM3Day(ls float64) float64 {
	return utils.Round(ls/M3DayToLS, 2)
}

type Reading struct {
	QM3Day           float64  `json:"Q_m3_day"`
	InitialTurbidity float64  `json:"initial_turbidity_NTU"`
	FinalTurbidity   float64  `json:"final_turbidity_NTU"`
	CoagulantDose    float64  `json:"coagulant_dose_mg_L"`
	SedTankL         float64  `json:"sed_tank_L_m"`
	SedTankB         float64  `json:"sed_tank_B_m"`
	SedTankD         float64  `json:"sed_tank_D_m"`
	FilterArea       float64  `json:"filter_area_m2"`
	ChlorineDose     float64  `json:"chlorine_dose_mg_L"`
	ChlorineResidual float64  `json:"chlorine_residual_mg_L"`
	PumpHead         *float64 `json:"pump_head_m,omitempty"`
	EnergyKWhDay     *float64 `json:"energy_kWh_day,omitempty"`
}

// RequiredFields are the reading keys that must be present and numeric.
var RequiredFields = []string{
	"Q_m3_day", "initial_turbidity_NTU", "final_turbidity_NTU",
	"coagulant_dose_mg_L", "sed_tank_L_m", "sed_tank_B_m", "sed_tank_D_m",
	"filter_area_m2", "chlorine_dose_mg_L", "chlorine_residual_mg_L",
}

type Trial struct {
	Trial            int     `json:"trial"`
	FlowM3Day        float64 `json:"flow_m3_day"`
	FlowLS           float64 `json:"flow_l_s"`
	DT               float64 `json:"dt_hr"`
	SLR              float64 `json:"slr"`
	FLR              float64 `json:"flr"`
	RemovalEff       float64 `json:"turbidity_removal_eff"`
	ChlorineDemand   float64 `json:"chlorine_demand"`
	ResidualChlorine float64 `json:"residual_chlorine"`
	Energy           float64 `json:"energy_kwh_day"`
	CoagulantDose    float64 `json:"coagulant_dose"`
}

type Result struct {
	Trials []Trial `json:"results"`
}

func pumpEnergy(head, qM3Day float64) (watts, kWhDay float64) {
	watts = head * (qM3Day / secondsDay) * Rho * G
	return watts, watts / 1000 * 24
}

func metrics(i int, r Reading) Trial {
	t := Trial{
		Trial:            i + 1,
		FlowM3Day:        r.QM3Day,
		FlowLS:           FlowLS(r.QM3Day),
		ResidualChlorine: r.ChlorineResidual,
		CoagulantDose:    r.CoagulantDose,
	}
	if r.InitialTurbidity > 0 {
		t.RemovalEff = (r.InitialTurbidity - r.FinalTurbidity) / r.InitialTurbidity * 100
	}
	volume := r.SedTankL * r.SedTankB * r.SedTankD
	area := r.SedTankL * r.SedTankB
	if r.QM3Day > 0 {
		t.DT = volume / r.QM3Day * 24
	}
	if area > 0 {
		t.SLR = r.QM3Day / area
	}
	if r.FilterArea > 0 {
		t.FLR = r.QM3Day / r.FilterArea
	}
	t.ChlorineDemand = r.ChlorineDose - r.ChlorineResidual
	switch {
	case r.EnergyKWhDay != nil:
		t.Energy = *r.EnergyKWhDay
	case r.PumpHead != nil:
		_, t.Energy = pumpEnergy(*r.PumpHead, r.QM3Day)
	}

	t.RemovalEff = utils.Round(t.RemovalEff, 2)
	t.DT = utils.Round(t.DT, 2)
	t.SLR = utils.Round(t.SLR, 2)
	t.FLR = utils.Round(t.FLR, 2)
	t.ChlorineDemand = utils.Round(t.ChlorineDemand, 2)
	t.Energy = utils.Round(t.Energy, 2)
	return t
}

func Calculate(readings []Reading) (*Result, error) {
	if len(readings) == 0 {
		return nil, code.CalculationErr.WithMsg("No readings provided")
	}
	res := &Result{Trials: make([]Trial, 0, len(readings))}
	for i, r := range readings {
		res.Trials = append(res.Trials, metrics(i, r))
	}
	return res, nil
}

func ModelCalculation(r Reading, t Trial) string {
	sv := r.SedTankL * r.SedTankB * r.SedTankD
	sa := r.SedTankL * r.SedTankB

	var b strings.Builder
	b.WriteString("--- Model Calculation for Trial 1 ---\n\n")
	fmt.Fprintf(&b, "1. Turbidity Removal Efficiency (%%):\n   Formula: ((Initial - Final Turbidity) / Initial) * 100\n   Substitution: ((%g - %g) / %g) * 100\n   Result: %g %%\n\n",
		r.InitialTurbidity, r.FinalTurbidity, r.InitialTurbidity, t.RemovalEff)
	fmt.Fprintf(&b, "2. Detention Time (DT) for Sedimentation Tank (hr):\n   Formula: (Volume / Flow) * 24\n   Volume = %gm × %gm × %gm = %g m³\n   Substitution: (%g m³ / %g m³/day) * 24 hr/day\n   Result: %g hours\n\n",
		r.SedTankL, r.SedTankB, r.SedTankD, sv, sv, r.QM3Day, t.DT)
	fmt.Fprintf(&b, "3. Surface Loading Rate (SLR) (m³/m²·day):\n   Formula: Flow Rate / Surface Area\n   Surface Area = %gm × %gm = %g m²\n   Substitution: %g m³/day / %g m²\n   Result: %g m³/m²·day\n\n",
		r.SedTankL, r.SedTankB, sa, r.QM3Day, sa, t.SLR)
	fmt.Fprintf(&b, "4. Filter Loading Rate (FLR) (m³/m²·day):\n   Formula: Flow Rate / Filter Area\n   Substitution: %g m³/day / %g m²\n   Result: %g m³/m²·day\n\n",
		r.QM3Day, r.FilterArea, t.FLR)
	fmt.Fprintf(&b, "5. Chlorine Demand (mg/L):\n   Formula: Dose - Residual\n   Substitution: %g mg/L - %g mg/L\n   Result: %g mg/L\n\n",
		r.ChlorineDose, r.ChlorineResidual, t.ChlorineDemand)
	b.WriteString("6. Energy Cost (kWh/day):\n")
	switch {
	case r.EnergyKWhDay != nil:
		fmt.Fprintf(&b, "   Value provided directly.\n   Result: %g kWh/day\n", t.Energy)
	case r.PumpHead != nil:
		qs := r.QM3Day / secondsDay
		w, e := pumpEnergy(*r.PumpHead, r.QM3Day)
		fmt.Fprintf(&b, "   Formula: (Head × Q × ρ × g) -> W to kWh/day\n   Q = %.5f m³/s\n   Power (W) = %gm × %.5fm³/s × %dkg/m³ × %gm/s² = %.2f W\n   Energy = (%.2fW / 1000) * 24h\n   Result: %.2f kWh/day\n",
			qs, *r.PumpHead, qs, Rho, G, w, w, e)
	default:
		b.WriteString("   No pump head or direct energy data provided.\n   Result: 0 kWh/day\n")
	}
	return b.String()
}

func okText(ok bool) string {
	if ok {
		return "OK"
	}
	return "OUT OF RANGE"
}

func column(trials []Trial, f func(Trial) float64) []float64 {
	out := make([]float64, len(trials))
	for i, t := range trials {
		out[i] = f(t)
	}
	return out
}

// SummaryReport builds the plain text performance report.
func SummaryReport(readings []Reading, res *Result) string {
	if res == nil || len(res.Trials) == 0 {
		return "No data to process. Please run analysis first."
	}
	ts := res.Trials

	var b strings.Builder
	b.WriteString("--- WTP Performance Analysis Report ---\n\n")
	b.WriteString("1. Summary of Mean Values:\n")
	means := []struct {
		label string
		f     func(Trial) float64
	}{
		{"Flow (m³/day)", func(t Trial) float64 { return t.FlowM3Day }},
		{"Flow (L/s)", func(t Trial) float64 { return t.FlowLS }},
		{"DT (hr)", func(t Trial) float64 { return t.DT }},
		{"SLR (m³/m²·day)", func(t Trial) float64 { return t.SLR }},
		{"FLR (m³/m²·day)", func(t Trial) float64 { return t.FLR }},
		{"Turbidity Removal Eff. (%)", func(t Trial) float64 { return t.RemovalEff }},
		{"Chlorine Demand (mg/L)", func(t Trial) float64 { return t.ChlorineDemand }},
		{"Residual Chlorine (mg/L)", func(t Trial) float64 { return t.ResidualChlorine }},
		{"Energy Cost (kWh/day)", func(t Trial) float64 { return t.Energy }},
	}
	for _, m := range means {
		fmt.Fprintf(&b, "  %-28s %10.4f\n", m.label, utils.Mean(column(ts, m.f)))
	}
	b.WriteString("\n2. Design Parameter Compliance Check:\n")
	for _, t := range ts {
		fmt.Fprintf(&b, "  Trial %d:\n", t.Trial)
		fmt.Fprintf(&b, "    - DT: %.2f hr (%s, Recommended: %g-%g hr)\n", t.DT, okText(RangeDT.Contains(t.DT)), RangeDT.Min, RangeDT.Max)
		fmt.Fprintf(&b, "    - SLR: %.2f m³/m²·d (%s, Recommended: %g-%g)\n", t.SLR, okText(RangeSLR.Contains(t.SLR)), RangeSLR.Min, RangeSLR.Max)
		fmt.Fprintf(&b, "    - FLR: %.2f m³/m²·d (%s, Recommended: %g-%g)\n\n", t.FLR, okText(RangeFLR.Contains(t.FLR)), RangeFLR.Min, RangeFLR.Max)
	}

	best := ts[0]
	for _, t := range ts[1:] {
		if t.RemovalEff > best.RemovalEff {
			best = t
		}
	}
	finals := make([]float64, len(readings))
	for i, r := range readings {
		finals[i] = r.FinalTurbidity
	}
	b.WriteString("3. Unit Efficiency and Final Water Quality:\n")
	fmt.Fprintf(&b, "  - Maximum turbidity removal of %g%% was achieved in Trial %d with a coagulant dose of %g mg/L.\n",
		best.RemovalEff, best.Trial, best.CoagulantDose)
	fmt.Fprintf(&b, "  - The average final turbidity is %.2f NTU. For potable water, a value < 1.0 NTU is preferred.\n", utils.Mean(finals))
	fmt.Fprintf(&b, "  - The average residual chlorine is %.2f mg/L. A residual of 0.2-0.5 mg/L is desired for effective disinfection in the distribution network.\n\n",
		utils.Mean(column(ts, func(t Trial) float64 { return t.ResidualChlorine })))

	b.WriteString("4. Conclusion:\n  The analysis highlights the plant's performance under various conditions. The compliance check identifies deviations from standard design criteria, suggesting areas for operational adjustment. The dose-efficiency curve can be used to optimize chemical usage for cost-effectiveness and performance.\n")
	return b.String()
}

// ParseReadings validates loosely typed readings and fails on the first
// missing or non numeric required field.
func ParseReadings(raw []map[string]any) ([]Reading, error) {
	if len(raw) == 0 {
		return nil, code.CalculationErr.WithMsg("No readings provided")
	}
	out := make([]Reading, 0, len(raw))
	for _, m := range raw {
		vals := make(map[string]float64, len(RequiredFields))
		for _, f := range RequiredFields {
			if !input.Present(m, f) {
				return nil, code.CalculationErr.WithMsgf("Missing or invalid field: %s", f)
			}
			v, ok := input.Float(m[f])
			if !ok {
				return nil, code.CalculationErr.WithMsg("Invalid reading data. All values must be numbers.")
			}
			vals[f] = v
		}
		out = append(out, Reading{
			QM3Day:           vals["Q_m3_day"],
			InitialTurbidity: vals["initial_turbidity_NTU"],
			FinalTurbidity:   vals["final_turbidity_NTU"],
			CoagulantDose:    vals["coagulant_dose_mg_L"],
			SedTankL:         vals["sed_tank_L_m"],
			SedTankB:         vals["sed_tank_B_m"],
			SedTankD:         vals["sed_tank_D_m"],
			FilterArea:       vals["filter_area_m2"],
			ChlorineDose:     vals["chlorine_dose_mg_L"],
			ChlorineResidual: vals["chlorine_residual_mg_L"],
			PumpHead:         input.Optional(m, "pump_head_m"),
			EnergyKWhDay:     input.Optional(m, "energy_kWh_day"),
		})
	}
	return out, nil
}
