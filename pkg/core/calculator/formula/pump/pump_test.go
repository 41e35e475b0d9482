package pump

import (
	"errors"
	"math"
	"testing"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	readings := []Reading{
		{PG: 0.2, VG: -20, T: 29.81, Tn: 19.34},
		{PG: 0.4, VG: -30, T: 26.00, Tn: 18.50},
	}
	res, err := Calculate(readings, DefaultConstants())
	require.NoError(t, err)
	require.Len(t, res.Trials, 2)

	head := 0.2*10.33 + (-20*10.33)/760 + 0.31
	flow := 0.49 * 0.1 / 29.81
	input := (10 * 3600 * 0.75) / (19.34 * 750)
	output := 1000 * 9.81 * flow * head / 1000

	first := res.Trials[0]
	assert.InDelta(t, head, first.Head, 1e-4)
	assert.InDelta(t, flow, first.Flow, 1e-6)
	assert.InDelta(t, input, first.Input, 1e-4)
	assert.InDelta(t, output, first.Output, 1e-4)
	assert.InDelta(t, output/input*100, first.Efficiency, 1e-2)
	assert.InDelta(t, (res.Trials[0].Efficiency+res.Trials[1].Efficiency)/2, res.MeanEfficiency, 1e-2)
}

func TestCalculateRejectsZeroTimes(t *testing.T) {
	for _, r := range []Reading{{PG: 0.2, T: 0, Tn: 10}, {PG: 0.2, T: 10, Tn: 0}} {
		_, err := Calculate([]Reading{r}, DefaultConstants())
		assert.True(t, errors.Is(err, code.CalculationErr))
	}
	_, err := Calculate(nil, DefaultConstants())
	assert.EqualError(t, err, "No trials provided")
}

func TestCalculateRejectsBadConstants(t *testing.T) {
	readings := []Reading{{PG: 0.2, VG: -20, T: 29.81, Tn: 19.34}}
	tests := []struct {
		name     string
		values   map[string]float64
		contains string
	}{
		{"zero energy constant", map[string]float64{"Ec_rev_kwh": 0}, "Constant Ec_rev_kwh"},
		{"negative area", map[string]float64{"A_m2": -0.49}, "Constant A_m2"},
		{"zero height", map[string]float64{"h_m": 0}, "Constant h_m"},
		{"overflow", map[string]float64{"rho_kg_m3": math.MaxFloat64, "g_ms2": 10}, "not a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calculate(readings, DefaultConstants().Override(tt.values))
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, code.CalculationErr))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestOverride(t *testing.T) {
	c := DefaultConstants().Override(map[string]float64{"X_m": 0.5, "Ec_rev_kwh": 1200})
	assert.Equal(t, 0.5, c.X)
	assert.Equal(t, 1200.0, c.EcRevKWh)
	assert.Equal(t, 0.49, c.A)
}

func TestModelCalculationUsesRawTrial(t *testing.T) {
	text := ModelCalculation(Reading{PG: 0.2, VG: -20, T: 29.81, Tn: 19.34}, DefaultConstants())
	assert.Contains(t, text, "Q = (0.49 m² × 0.1 m) / 29.81 s = 0.001644 m³/s")
	assert.Contains(t, text, "Step 5: Calculate Efficiency (η)")
	assert.NotContains(t, text, "NaN")
	assert.NotContains(t, text, "Inf")
}
