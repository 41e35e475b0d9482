package venturi

import (
	"errors"
	"math"
	"testing"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConstants() map[string]float64 {
	return map[string]float64{
		"d1":                19.0,
		"d2":                9.55,
		"tank_length":       0.49,
		"tank_width":        0.49,
		"water_height":      0.10,
		"g":                 9.81,
		"conversion_factor": 12.6,
	}
}

func TestParseConstantsMissing(t *testing.T) {
	values := sampleConstants()
	delete(values, "water_height")
	_, err := ParseConstants(values)
	require.Error(t, err)
	assert.Equal(t, "Missing constant: water_height", err.Error())
}

func TestCalculate(t *testing.T) {
	c, err := ParseConstants(sampleConstants())
	require.NoError(t, err)

	res, err := Calculate([]Reading{{H1: 25.5, H2: 18.2, T: 45.2}, {H1: 28.1, H2: 16.8, T: 42.1}}, c)
	require.NoError(t, err)
	require.Len(t, res.Trials, 2)

	a1 := math.Pi * 0.019 * 0.019 / 4
	a2 := math.Pi * 0.00955 * 0.00955 / 4
	h := (25.5 - 18.2) / 100 * 12.6
	qt := a1 * a2 * math.Sqrt(2*9.81*h) / math.Sqrt(a1*a1-a2*a2)
	qa := 0.49 * 0.49 * 0.10 / 45.2

	first := res.Trials[0]
	assert.Equal(t, 1, first.Trial)
	assert.InDelta(t, h, first.H, 1e-4)
	assert.InDelta(t, qt, first.Qt, 1e-6)
	assert.InDelta(t, qa, first.Qa, 1e-6)
	assert.InDelta(t, qa/qt, first.Cd, 1e-4)
	assert.InDelta(t, 0.0240, res.Constants.VolumeCollected, 1e-4)
	assert.InDelta(t, a1, res.Constants.A1, 1e-8)
}

func TestCalculateErrors(t *testing.T) {
	c, err := ParseConstants(sampleConstants())
	require.NoError(t, err)
	inverted := c
	inverted.D1, inverted.D2 = c.D2, c.D1
	negativeG := c
	negativeG.G = -9.81
	noTank := c
	noTank.TankWidth = 0
	huge := c
	huge.ConversionFactor = math.MaxFloat64

	tests := []struct {
		name     string
		readings []Reading
		c        Constants
		contains string
	}{
		{name: "no readings", c: c, contains: "No readings provided"},
		{name: "negative head", readings: []Reading{{H1: 25, H2: 20, T: 40}, {H1: 10, H2: 20, T: 40}}, c: c, contains: "Trial 2:"},
		{name: "zero time", readings: []Reading{{H1: 25, H2: 20, T: 0}}, c: c, contains: "time must be greater than zero"},
		{name: "inverted diameters", readings: []Reading{{H1: 25, H2: 20, T: 40}}, c: inverted, contains: "Inlet diameter"},
		{name: "negative g", readings: []Reading{{H1: 25, H2: 20, T: 40}}, c: negativeG, contains: "Constant g must be greater than zero"},
		{name: "zero tank width", readings: []Reading{{H1: 25, H2: 20, T: 40}}, c: noTank, contains: "Constant tank_width"},
		{name: "overflow", readings: []Reading{{H1: 25, H2: 20, T: 40}}, c: huge, contains: "not a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.readings, tt.c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, code.CalculationErr))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestModelCalculation(t *testing.T) {
	c, _ := ParseConstants(sampleConstants())
	text := ModelCalculation(Reading{H1: 25.5, H2: 18.2, T: 45.2}, c)
	assert.Contains(t, text, "Step 1: Calculate areas")
	assert.Contains(t, text, "Step 6: Calculate discharge coefficient")
	assert.Contains(t, text, "V = Area of tank × Height = 0.2401 × 0.10 = 0.0240 m³")
}
