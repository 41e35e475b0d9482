package oilgas

import (
	"errors"
	"math"
	"testing"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReadings() []Reading {
	return []Reading{
		{QOilBblDay: 1200, QGasMMSCFD: 0.5, WaterCutPercent: 20, PInBar: 25, POutBar: 20, TC: 40, DM: 0.2, LM: 500, RhoOil: 850, MuOilCP: 2, PiKW: 75, SeparatorVolume: 5},
		{QOilBblDay: 1500, QGasMMSCFD: 0.6, WaterCutPercent: 25, PInBar: 30, POutBar: 24, TC: 42, DM: 0.2, LM: 500, RhoOil: 860, MuOilCP: 2.5, PiKW: 85, SeparatorVolume: 5},
		{QOilBblDay: 1800, QGasMMSCFD: 0.7, WaterCutPercent: 22, PInBar: 35, POutBar: 28, TC: 45, DM: 0.2, LM: 500, RhoOil: 855, MuOilCP: 2.2, PiKW: 100, SeparatorVolume: 5},
	}
}

func TestCalculate(t *testing.T) {
	res, err := Calculate(sampleReadings())
	require.NoError(t, err)
	require.Len(t, res.Trials, 3)

	first := res.Trials[0]
	assert.Equal(t, 5.0, first.DeltaPBar)
	assert.Equal(t, 0.07, first.Velocity)
	assert.EqualValues(t, 5974, first.Reynolds)
	assert.Equal(t, 1.1, first.PwKW)
	assert.Equal(t, 1.47, first.Efficiency)
	assert.Equal(t, 74.66, first.GOR)
	assert.Equal(t, 37.74, first.RetentionMin)
	assert.Equal(t, RegimeTurbulent, first.Regime)
	assert.Equal(t, "Flow is Turbulent.", first.Notes)

	assert.Equal(t, 1.91, res.MeanEta)
}

func TestRegime(t *testing.T) {
	assert.Equal(t, RegimeLaminar, Regime(1999))
	assert.Equal(t, RegimeTransitional, Regime(2000))
	assert.Equal(t, RegimeTransitional, Regime(4000))
	assert.Equal(t, RegimeTurbulent, Regime(4001))
}

func TestHighDeltaPFlag(t *testing.T) {
	r := sampleReadings()[0]
	r.PInBar = 40
	res, err := Calculate([]Reading{r})
	require.NoError(t, err)
	assert.Equal(t, "Flow is Turbulent. High ΔP flagged.", res.Trials[0].Notes)
	assert.Contains(t, SummaryReport(res), "High pressure drop was flagged in Trial(s) [1]")
}

func TestCalculateValidation(t *testing.T) {
	zeroD := sampleReadings()[0]
	zeroD.DM = 0
	zeroRho := sampleReadings()[0]
	zeroRho.RhoOil = -1

	for _, r := range []Reading{zeroD, zeroRho} {
		_, err := Calculate([]Reading{r})
		assert.True(t, errors.Is(err, code.CalculationErr))
	}
	_, err := Calculate(nil)
	assert.EqualError(t, err, "No readings provided")
}

func TestParseReadingsDiameterFallback(t *testing.T) {
	m := map[string]any{
		"Q_oil_bbl_day": 1200.0, "Q_gas_MMSCFD": 0.5, "water_cut_percent": 20.0,
		"P_in_bar": 25.0, "P_out_bar": 20.0, "T_C": 40.0, "D_mm": 200.0, "L_m": 500.0,
		"rho_oil_kg_m3": 850.0, "mu_oil_cP": "2", "Pi_kW": 75.0,
	}
	readings, err := ParseReadings([]map[string]any{m})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, readings[0].DM, 1e-12)
	assert.Zero(t, readings[0].SeparatorVolume)

	delete(m, "D_mm")
	_, err = ParseReadings([]map[string]any{m})
	assert.EqualError(t, err, "Missing or invalid field: D_m")
}

func TestSummaryReport(t *testing.T) {
	res, err := Calculate(sampleReadings())
	require.NoError(t, err)
	report := SummaryReport(res)

	assert.Contains(t, report, "--- Oil & Gas Process Analysis Report ---")
	assert.Contains(t, report, "Turbulent      3")
	assert.Contains(t, report, "Maximum efficiency of 2.32% was observed in Trial 3 at an oil flow rate of 1800 bbl/day.")
	assert.Contains(t, report, "No excessive pressure drops were flagged")
	assert.Contains(t, report, "The average retention time is 31.03 minutes.")
}

func TestModelCalculation(t *testing.T) {
	readings := sampleReadings()
	res, err := Calculate(readings)
	require.NoError(t, err)

	text := ModelCalculation(readings[0], res.Trials[0])
	assert.Contains(t, text, "--- Model Calculation for Trial 1 ---")
	assert.Contains(t, text, "Substitution: 25 bar - 20 bar")
	assert.Contains(t, text, "Result: 1.47 %")
}

func TestReynoldsClamp(t *testing.T) {
	tests := []struct {
		name string
		re   float64
		want int64
	}{
		{"ordinary", 12345.9, 12345},
		{"zero", 0, 0},
		{"negative", -5, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"beyond int64", 1e300, math.MaxInt64},
		{"exactly 2^63", math.MaxInt64, math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reynolds(tt.re))
		})
	}
}

func TestCalculateTinyViscosity(t *testing.T) {
	r := sampleReadings()[0]
	r.MuOilCP = 1e-300
	res, err := Calculate([]Reading{r})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), res.Trials[0].Reynolds)
	assert.Equal(t, RegimeTurbulent, res.Trials[0].Regime)
}
