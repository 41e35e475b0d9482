package water

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func sampleReadings() []Reading {
	return []Reading{
		{
			QM3Day: 4320, InitialTurbidity: 50, FinalTurbidity: 5, CoagulantDose: 20,
			SedTankL: 20, SedTankB: 10, SedTankD: 3, FilterArea: 25,
			ChlorineDose: 3, ChlorineResidual: 0.5, PumpHead: ptr(15),
		},
		{
			QM3Day: 5000, InitialTurbidity: 55, FinalTurbidity: 4, CoagulantDose: 25,
			SedTankL: 20, SedTankB: 10, SedTankD: 3, FilterArea: 25,
			ChlorineDose: 3.2, ChlorineResidual: 0.4, EnergyKWhDay: ptr(95),
		},
		{
			QM3Day: 3800, InitialTurbidity: 45, FinalTurbidity: 6, CoagulantDose: 18,
			SedTankL: 20, SedTankB: 10, SedTankD: 3, FilterArea: 25,
			ChlorineDose: 2.8, ChlorineResidual: 0.6,
		},
	}
}

func TestCalculate(t *testing.T) {
	res, err := Calculate(sampleReadings())
	require.NoError(t, err)
	require.Len(t, res.Trials, 3)

	first := res.Trials[0]
	assert.Equal(t, 90.0, first.RemovalEff)
	assert.Equal(t, 3.33, first.DT)
	assert.Equal(t, 21.6, first.SLR)
	assert.Equal(t, 172.8, first.FLR)
	assert.Equal(t, 2.5, first.ChlorineDemand)
	assert.Equal(t, 50.0, first.FlowLS)
	// 15 m × 0.05 m³/s × 1000 × 9.81 = 7357.5 W → 176.58 kWh/day
	assert.Equal(t, 176.58, first.Energy)

	assert.Equal(t, 95.0, res.Trials[1].Energy)
	assert.Zero(t, res.Trials[2].Energy)
}

func TestCalculateEmpty(t *testing.T) {
	_, err := Calculate(nil)
	assert.EqualError(t, err, "No readings provided")
}

func TestFlowConversion(t *testing.T) {
	assert.Equal(t, 50.0, FlowLS(4320))
	assert.InDelta(t, 4320, FlowM3Day(50), 0.5)
}

func TestSummaryReport(t *testing.T) {
	readings := sampleReadings()
	res, err := Calculate(readings)
	require.NoError(t, err)

	report := SummaryReport(readings, res)
	assert.Contains(t, report, "--- WTP Performance Analysis Report ---")
	assert.Contains(t, report, "- DT: 3.33 hr (OK, Recommended: 2-4 hr)")
	assert.Contains(t, report, "- FLR: 172.80 m³/m²·d (OK, Recommended: 120-240)")
	assert.Contains(t, report, "Maximum turbidity removal of 92.73% was achieved in Trial 2 with a coagulant dose of 25 mg/L.")
	assert.Contains(t, report, "The average final turbidity is 5.00 NTU.")
	assert.Contains(t, report, "4. Conclusion:")
}

func TestModelCalculation(t *testing.T) {
	readings := sampleReadings()
	res, err := Calculate(readings)
	require.NoError(t, err)

	text := ModelCalculation(readings[0], res.Trials[0])
	assert.Contains(t, text, "--- Model Calculation for Trial 1 ---")
	assert.Contains(t, text, "Volume = 20m × 10m × 3m = 600 m³")
	assert.Contains(t, text, "Power (W) = 15m × 0.05000m³/s × 1000kg/m³ × 9.81m/s² = 7357.50 W")

	text = ModelCalculation(readings[2], res.Trials[2])
	assert.Contains(t, text, "No pump head or direct energy data provided.")
}

func TestParseReadings(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"Q_m3_day": 4320.0, "initial_turbidity_NTU": "50", "final_turbidity_NTU": 5.0,
			"coagulant_dose_mg_L": 20.0, "sed_tank_L_m": 20.0, "sed_tank_B_m": 10.0, "sed_tank_D_m": 3.0,
			"filter_area_m2": 25.0, "chlorine_dose_mg_L": 3.0, "chlorine_residual_mg_L": 0.5,
			"pump_head_m": 15.0, "energy_kWh_day": nil,
		}
	}

	readings, err := ParseReadings([]map[string]any{base()})
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, 50.0, readings[0].InitialTurbidity)
	require.NotNil(t, readings[0].PumpHead)
	assert.Nil(t, readings[0].EnergyKWhDay)

	missing := base()
	missing["filter_area_m2"] = ""
	_, err = ParseReadings([]map[string]any{missing})
	assert.EqualError(t, err, "Missing or invalid field: filter_area_m2")

	bad := base()
	bad["sed_tank_D_m"] = "deep"
	_, err = ParseReadings([]map[string]any{bad})
	assert.EqualError(t, err, "Invalid reading data. All values must be numbers.")
}
