package calculation

import (
	"context"
	"testing"

	"github.com/scienceol/labmate/internal/testutil"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCalculationRepo(t *testing.T) {
	testutil.SetupDB(t)
	ctx := context.Background()
	c := NewCalculationRepo()

	require.NoError(t, c.CreateCalculation(ctx, &model.Calculation{
		UserID: 1, Kind: model.CalcReagent, Reagent: "Sodium Chloride", Formula: "NaCl",
		Molarity: 0.5, Volume: 1, MassNeeded: 29.22,
	}))
	require.NoError(t, c.CreateCalculation(ctx, &model.Calculation{
		UserID: 1, Kind: model.CalcPitot, MassNeeded: 0.98,
		Inputs:  datatypes.JSON(`{"trials":3}`),
		Outputs: datatypes.JSON(`{"mean_cv":0.98}`),
	}))

	all, err := c.ListCalculations(ctx, repo.CalculationQuery{UserID: 1})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, model.CalcPitot, all[0].Kind)
	assert.JSONEq(t, `{"mean_cv":0.98}`, string(all[0].Outputs))

	kind := model.CalcReagent
	reagents, err := c.ListCalculations(ctx, repo.CalculationQuery{UserID: 1, Kind: &kind, Limit: 5})
	require.NoError(t, err)
	require.Len(t, reagents, 1)
	assert.Equal(t, "NaCl", reagents[0].Formula)

	n, err := c.CountCalculations(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
