// Package oilgas analyses oil & gas process trials: pipe hydraulics, pump
// or compressor efficiency, gas-oil ratio and separator retention.
package oilgas

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/calculator/formula/input"
	"github.com/scienceol/labmate/pkg/utils"
)

const (
	PI           = 3.1415926535
	BblDayToM3S  = 0.158987 / 86400
	MMSCFDToM3S  = 1187.0 / 3600
	BarToPa      = 100000
	CPToPaS      = 0.001
	highDeltaBar = 10
)

const (
	RegimeLaminar      = "Laminar"
	RegimeTransitional = "Transitional"
	RegimeTurbulent    = "Turbulent"
)

type Reading struct {
	QOilBblDay      float64 `json:"Q_oil_bbl_day"`
	QGasMMSCFD      float64 `json:"Q_gas_MMSCFD"`
	WaterCutPercent float64 `json:"water_cut_percent"`
	PInBar          float64 `json:"P_in_bar"`
	POutBar         float64 `json:"P_out_bar"`
	TC              float64 `json:"T_C"`
	DM              float64 `json:"D_m"`
	LM              float64 `json:"L_m"`
	RhoOil          float64 `json:"rho_oil_kg_m3"`
	MuOilCP         float64 `json:"mu_oil_cP"`
	PiKW            float64 `json:"Pi_kW"`
	SeparatorVolume float64 `json:"separator_volume_m3"`
}

func (r Reading) qOil() float64 { return r.QOilBblDay * BblDayToM3S }
func (r Reading) qGas() float64 { return r.QGasMMSCFD * MMSCFDToM3S }
func (r Reading) area() float64 { return PI * r.DM * r.DM / 4 }

type Trial struct {
	Trial           int     `json:"trial"`
	QOilBblDay      float64 `json:"q_oil_bbl_day"`
	QGasMMSCFD      float64 `json:"q_gas_mmscfd"`
	WaterCutPercent float64 `json:"water_cut_percent"`
	PInBar          float64 `json:"p_in_bar"`
	POutBar         float64 `json:"p_out_bar"`
	DeltaPBar       float64 `json:"delta_p_bar"`
	Velocity        float64 `json:"velocity_m_s"`
	Reynolds        int64   `json:"re"`
	PwKW            float64 `json:"pw_kw"`
	PiKW            float64 `json:"pi_kw"`
	Efficiency      float64 `json:"efficiency"`
	GOR             float64 `json:"gor"`
	RetentionMin    float64 `json:"retention_min"`
	Regime          string  `json:"regime"`
	Notes           string  `json:"notes"`
}

type Result struct {
	Trials  []Trial `json:"results"`
	MeanEta float64 `json:"mean_efficiency"`
}

func Regime(re int64) string {
	switch {
	case re < 2000:
		return RegimeLaminar
	case re > 4000:
		return RegimeTurbulent
	default:
		return RegimeTransitional
	}
}

// reynolds 超出 int64 的值截断到 MaxInt64，直接转换在各平台上的结果不确定
func reynolds(re float64) int64 {
	re = utils.Sanitize(re)
	switch {
	case re >= math.MaxInt64:
		return math.MaxInt64
	case re <= 0:
		return 0
	}
	return int64(re)
}

func metrics(i int, r Reading) Trial {
	q := r.qOil()
	velocity := 0.0
	if a := r.area(); a > 0 {
		velocity = q / a
	}
	mu := r.MuOilCP * CPToPaS
	re := 0.0
	if mu > 0 {
		re = r.RhoOil * velocity * r.DM / mu
	}
	deltaPa := (r.PInBar - r.POutBar) * BarToPa
	pwW := q * deltaPa
	eta := 0.0
	if piW := r.PiKW * 1000; piW > 0 {
		eta = pwW / piW * 100
	}
	gor, retention := 0.0, 0.0
	if q > 0 {
		gor = r.qGas() / q
		retention = r.SeparatorVolume / q / 60
	}

	t := Trial{
		Trial:           i + 1,
		QOilBblDay:      r.QOilBblDay,
		QGasMMSCFD:      r.QGasMMSCFD,
		WaterCutPercent: r.WaterCutPercent,
		PInBar:          r.PInBar,
		POutBar:         r.POutBar,
		DeltaPBar:       utils.Round(deltaPa/BarToPa, 2),
		Velocity:        utils.Round(velocity, 2),
		Reynolds:        reynolds(re),
		PwKW:            utils.Round(pwW/1000, 2),
		PiKW:            r.PiKW,
		Efficiency:      utils.Round(eta, 2),
		GOR:             utils.Round(gor, 2),
		RetentionMin:    utils.Round(retention, 2),
	}
	t.Regime = Regime(t.Reynolds)
	t.Notes = fmt.Sprintf("Flow is %s.", t.Regime)
	if t.DeltaPBar > highDeltaBar {
		t.Notes += " High ΔP flagged."
	}
	return t
}

func Calculate(readings []Reading) (*Result, error) {
	if len(readings) == 0 {
		return nil, code.CalculationErr.WithMsg("No readings provided")
	}
	res := &Result{Trials: make([]Trial, 0, len(readings))}
	etas := make([]float64, 0, len(readings))
	for i, r := range readings {
		if r.DM <= 0 {
			return nil, code.CalculationErr.WithMsgf("Trial %d: pipe diameter must be greater than zero", i+1)
		}
		if r.RhoOil <= 0 {
			return nil, code.CalculationErr.WithMsgf("Trial %d: oil density must be greater than zero", i+1)
		}
		t := metrics(i, r)
		etas = append(etas, t.Efficiency)
		res.Trials = append(res.Trials, t)
	}
	res.MeanEta = utils.Round(utils.Mean(etas), 2)
	return res, nil
}

// RequiredFields excludes D_m, which may be given as D_mm, and the optional separator volume.
var RequiredFields = []string{
	"Q_oil_bbl_day", "Q_gas_MMSCFD", "water_cut_percent", "P_in_bar", "P_out_bar",
	"T_C", "L_m", "rho_oil_kg_m3", "mu_oil_cP", "Pi_kW",
}

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

		d := input.Optional(m, "D_m")
		if d == nil {
			if mm := input.Optional(m, "D_mm"); mm != nil {
				v := *mm / 1000
				d = &v
			}
		}
		if d == nil {
			return nil, code.CalculationErr.WithMsg("Missing or invalid field: D_m")
		}

		sep := 0.0
		if v := input.Optional(m, "separator_volume_m3"); v != nil {
			sep = *v
		}

		out = append(out, Reading{
			QOilBblDay:      vals["Q_oil_bbl_day"],
			QGasMMSCFD:      vals["Q_gas_MMSCFD"],
			WaterCutPercent: vals["water_cut_percent"],
			PInBar:          vals["P_in_bar"],
			POutBar:         vals["P_out_bar"],
			TC:              vals["T_C"],
			DM:              *d,
			LM:              vals["L_m"],
			RhoOil:          vals["rho_oil_kg_m3"],
			MuOilCP:         vals["mu_oil_cP"],
			PiKW:            vals["Pi_kW"],
			SeparatorVolume: sep,
		})
	}
	return out, nil
}

func ModelCalculation(r Reading, t Trial) string {
	q := r.qOil()
	mu := r.MuOilCP * CPToPaS
	deltaPa := t.DeltaPBar * BarToPa

	var b strings.Builder
	fmt.Fprintf(&b, "--- Model Calculation for Trial %d ---\n\n", t.Trial)
	fmt.Fprintf(&b, "1. Volumetric Flow (Q_oil) in m³/s:\n   Formula: Q_bbl_day * %.8f\n   Substitution: %g * %.8f\n   Result: %.6f m³/s\n\n",
		BblDayToM3S, r.QOilBblDay, BblDayToM3S, q)
	fmt.Fprintf(&b, "2. Superficial Velocity (V) in m/s:\n   Formula: 4 * Q / (π * D²)\n   Area = π * (%g m)² / 4 = %.6f m²\n   Substitution: 4 * %.6f / (π * %g²)\n   Result: %g m/s\n\n",
		r.DM, r.area(), q, r.DM, t.Velocity)
	fmt.Fprintf(&b, "3. Reynolds Number (Re):\n   Formula: (ρ * V * D) / μ\n   μ = %g cP = %g Pa·s\n   Substitution: (%g * %g * %g) / %g\n   Result: %d\n\n",
		r.MuOilCP, mu, r.RhoOil, t.Velocity, r.DM, mu, t.Reynolds)
	fmt.Fprintf(&b, "4. Pressure Drop (ΔP) in bar:\n   Formula: P_in - P_out\n   Substitution: %g bar - %g bar\n   Result: %g bar\n\n",
		r.PInBar, r.POutBar, t.DeltaPBar)
	fmt.Fprintf(&b, "5. Hydraulic Power (Pw) in kW:\n   Formula: Q_m³/s * ΔP_Pa / 1000\n   ΔP = %g bar = %g Pa\n   Substitution: %.6f * %g / 1000\n   Result: %g kW\n\n",
		t.DeltaPBar, deltaPa, q, deltaPa, t.PwKW)
	fmt.Fprintf(&b, "6. Efficiency (η) in %%:\n   Formula: (Pw / Pi) * 100\n   Substitution: (%g kW / %g kW) * 100\n   Result: %g %%\n",
		t.PwKW, r.PiKW, t.Efficiency)
	return b.String()
}

func SummaryReport(res *Result) string {
	if res == nil || len(res.Trials) == 0 {
		return "No data."
	}
	ts := res.Trials

	var b strings.Builder
	b.WriteString("--- Oil & Gas Process Analysis Report ---\n\n")
	b.WriteString("1. Flow Regime Classification:\n")
	counts := map[string]int{}
	for _, t := range ts {
		counts[t.Regime]++
	}
	regimes := make([]string, 0, len(counts))
	for k := range counts {
		regimes = append(regimes, k)
	}
	sort.Slice(regimes, func(i, j int) bool {
		if counts[regimes[i]] != counts[regimes[j]] {
			return counts[regimes[i]] > counts[regimes[j]]
		}
		return regimes[i] < regimes[j]
	})
	for _, k := range regimes {
		fmt.Fprintf(&b, "  %-14s %d\n", k, counts[k])
	}

	var etas, gors, dps, rets []float64
	best := ts[0]
	high := make([]string, 0)
	for _, t := range ts {
		etas = append(etas, t.Efficiency)
		gors = append(gors, t.GOR)
		dps = append(dps, t.DeltaPBar)
		rets = append(rets, t.RetentionMin)
		if t.Efficiency > best.Efficiency {
			best = t
		}
		if t.DeltaPBar > highDeltaBar {
			high = append(high, fmt.Sprint(t.Trial))
		}
	}

	b.WriteString("\n2. Key Performance Indicators (Mean Values):\n")
	fmt.Fprintf(&b, "  - Mean Pump/Compressor Efficiency: %.2f %%\n", utils.Mean(etas))
	fmt.Fprintf(&b, "  - Mean Gas-Oil Ratio (GOR): %.2f m³/m³\n", utils.Mean(gors))
	fmt.Fprintf(&b, "  - Mean Pressure Drop: %.2f bar\n\n", utils.Mean(dps))

	b.WriteString("3. Peak Performance and Risks:\n")
	fmt.Fprintf(&b, "  - Maximum efficiency of %g%% was observed in Trial %d at an oil flow rate of %g bbl/day.\n",
		best.Efficiency, best.Trial, best.QOilBblDay)
	if len(high) > 0 {
		fmt.Fprintf(&b, "  - Safety Check: High pressure drop was flagged in Trial(s) [%s], which may indicate flow assurance issues or equipment strain.\n",
			strings.Join(high, ", "))
	} else {
		b.WriteString("  - Safety Check: No excessive pressure drops were flagged in the given trials.\n")
	}
	if avg := utils.Mean(rets); avg > 0 {
		fmt.Fprintf(&b, "  - Separator Adequacy: The average retention time is %.2f minutes. Typically, 1-3 minutes is sufficient for good separation, but this depends on fluid properties.\n", avg)
	} else {
		b.WriteString("  - Separator Adequacy: Retention time could not be calculated as separator volume was not provided.\n")
	}

	b.WriteString("\n4. Conclusion:\n  The analysis indicates predominantly turbulent flow conditions. The efficiency curve can guide operations to the most energy-effective flow rate. Monitored pressure drops are crucial for maintaining pipeline integrity and throughput.\n")
	return b.String()
}
