package calculator

import (
	"context"

	"github.com/scienceol/labmate/pkg/core/calculator"
)

func (c *calculatorImpl) Samples(_ context.Context) *calculator.SamplesResp {
	return &calculator.SamplesResp{
		Pitot: &calculator.PitotReq{
			OrificeReadings: [][]any{{100.0, 150.0}, {100.0, 170.0}, {100.0, 190.0}},
			PitotReadings:   [][]any{{100.0, 140.0}, {100.0, 160.0}, {100.0, 180.0}},
			GraphParams:     []string{"V0", "Vp"},
		},
		Venturi: &calculator.VenturiReq{
			Constants: map[string]any{
				"d1":                19.0,
				"d2":                9.55,
				"tank_length":       0.49,
				"tank_width":        0.49,
				"water_height":      0.10,
				"g":                 9.81,
				"conversion_factor": 12.6,
			},
			Readings: []map[string]any{
				{"h1": 25.5, "h2": 18.2, "t": 45.2},
				{"h1": 28.1, "h2": 16.8, "t": 42.1},
			},
		},
		Pump: &calculator.PumpReq{
			Trials: []map[string]any{
				{"P.G.": 0.2, "V.G.": -20.0, "t": 29.81, "t_n": 19.34},
				{"P.G.": 0.4, "V.G.": -30.0, "t": 26.00, "t_n": 18.50},
				{"P.G.": 0.6, "V.G.": -40.0, "t": 23.94, "t_n": 17.06},
				{"P.G.": 0.8, "V.G.": -50.0, "t": 21.06, "t_n": 16.50},
				{"P.G.": 1.0, "V.G.": -60.0, "t": 19.16, "t_n": 15.65},
			},
		},
		Water: &calculator.ReadingsReq{Readings: []map[string]any{
			wtpSample(4320, 50, 5, 20, 3, 0.5, 15.0, nil),
			wtpSample(5000, 55, 4, 25, 3.2, 0.4, nil, 95.0),
			wtpSample(3800, 45, 6, 18, 2.8, 0.6, 14.0, nil),
		}},
		OilGas: &calculator.ReadingsReq{Readings: []map[string]any{
			oilSample(1200, 0.5, 20, 25, 20, 40, 850, 2, 75),
			oilSample(1500, 0.6, 25, 30, 24, 42, 860, 2.5, 85),
			oilSample(1800, 0.7, 22, 35, 28, 45, 855, 2.2, 100),
		}},
	}
}

// 三组样例共用 20 x 10 x 3 m 沉淀池和 25 m² 滤池
func wtpSample(q, initial, final, dose, clDose, clResidual float64, head, energy any) map[string]any {
	return map[string]any{
		"Q_m3_day":               q,
		"initial_turbidity_NTU":  initial,
		"final_turbidity_NTU":    final,
		"coagulant_dose_mg_L":    dose,
		"sed_tank_L_m":           20.0,
		"sed_tank_B_m":           10.0,
		"sed_tank_D_m":           3.0,
		"filter_area_m2":         25.0,
		"chlorine_dose_mg_L":     clDose,
		"chlorine_residual_mg_L": clResidual,
		"pump_head_m":            head,
		"energy_kWh_day":         energy,
	}
}

func oilSample(qOil, qGas, waterCut, pIn, pOut, temp, rho, mu, pi float64) map[string]any {
	return map[string]any{
		"Q_oil_bbl_day":       qOil,
		"Q_gas_MMSCFD":        qGas,
		"water_cut_percent":   waterCut,
		"P_in_bar":            pIn,
		"P_out_bar":           pOut,
		"T_C":                 temp,
		"D_m":                 0.2,
		"L_m":                 500.0,
		"rho_oil_kg_m3":       rho,
		"mu_oil_cP":           mu,
		"Pi_kW":               pi,
		"separator_volume_m3": 5.0,
	}
}
