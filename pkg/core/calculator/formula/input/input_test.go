package input

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{name: "float", in: 1.5, want: 1.5, ok: true},
		{name: "int", in: 3, want: 3, ok: true},
		{name: "number", in: json.Number("2.25"), want: 2.25, ok: true},
		{name: "string", in: " 4.5 ", want: 4.5, ok: true},
		{name: "empty string", in: "", ok: false},
		{name: "text", in: "abc", ok: false},
		{name: "nil", in: nil, ok: false},
		{name: "bool", in: true, ok: false},
		{name: "nan string", in: "NaN", ok: false},
		{name: "inf string", in: "+Inf", ok: false},
		{name: "nan float", in: math.NaN(), ok: false},
		{name: "overflow", in: "1e400", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Float(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionalAndFloats(t *testing.T) {
	m := map[string]any{"a": 1.0, "b": "", "c": nil, "d": "7", "e": "x"}
	require.NotNil(t, Optional(m, "a"))
	assert.Nil(t, Optional(m, "b"))
	assert.Nil(t, Optional(m, "c"))
	assert.Nil(t, Optional(m, "missing"))
	assert.Equal(t, 7.0, *Optional(m, "d"))

	assert.Equal(t, map[string]float64{"a": 1, "d": 7}, Floats(m))
}
