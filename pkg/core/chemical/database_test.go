package chemical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	all := All()
	require.Len(t, all, 10)
	all[0].Name = "changed"
	assert.Equal(t, "Sodium Chloride", All()[0].Name)
	assert.Len(t, Names(), 10)

	c, ok := Lookup(" sodium chloride ")
	require.True(t, ok)
	assert.Equal(t, "NaCl", c.Formula)

	_, ok = Lookup("Unobtainium")
	assert.False(t, ok)
}

func TestMentioned(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Calculate 0.1M NaCl for 100mL", []string{"Sodium Chloride"}},
		{"how dangerous is sulfuric acid?", []string{"Sulfuric Acid"}},
		{"mix HCl with NaOH", []string{"Sodium Hydroxide", "Hydrochloric Acid"}},
		{"NaCl2 is not a thing", nil},
		{"nothing here", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Mentioned(tt.text)
			names := make([]string, 0, len(got))
			for _, c := range got {
				names = append(names, c.Name)
			}
			if tt.want == nil {
				assert.Empty(t, names)
				return
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestReagent(t *testing.T) {
	c, _ := Lookup("Sodium Chloride")
	r := Reagent(c, 0.1, 100)
	assert.InDelta(t, 0.1, r.VolumeL, 1e-12)
	assert.InDelta(t, 0.01, r.MolesNeeded, 1e-12)
	assert.InDelta(t, 0.5844, r.MassNeeded, 1e-9)
	assert.Equal(t, "Weigh 0.584g of Sodium Chloride and dissolve in distilled water. "+
		"Transfer to a 100.0mL volumetric flask and dilute to mark.", r.Instructions)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "100.0", Number(100))
	assert.Equal(t, "0.25", Number(0.25))
	assert.Equal(t, "1.0", Number(1))
}
