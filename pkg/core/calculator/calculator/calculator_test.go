package calculator

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labmate/internal/testutil"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/calculator"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/repo"
	cStore "github.com/scienceol/labmate/pkg/repo/calculation"
	"github.com/scienceol/labmate/pkg/repo/model"
)

type recorder struct {
	actions []model.ActionType
	descs   []string
}

func (r *recorder) Log(_ context.Context, _ int64, action model.ActionType, desc string) {
	r.actions = append(r.actions, action)
	r.descs = append(r.descs, desc)
}

func setup(t *testing.T) (context.Context, *calculatorImpl, repo.CalculationRepo, *recorder) {
	t.Helper()
	testutil.SetupDB(t)
	store, rec := cStore.NewCalculationRepo(), &recorder{}
	svc := NewWith(store, rec).(*calculatorImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }
	ctx := auth.WithUser(context.Background(), &auth.UserInfo{ID: 7, Name: "grace"})
	return ctx, svc, store, rec
}

func assertPDF(t *testing.T, encoded string) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func assertPNG(t *testing.T, encoded string) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(raw[:4]))
}

func latest(t *testing.T, ctx context.Context, store repo.CalculationRepo) *model.Calculation {
	t.Helper()
	list, err := store.ListCalculations(ctx, repo.CalculationQuery{UserID: 7, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0]
}

func TestPitot(t *testing.T) {
	ctx, svc, store, rec := setup(t)

	res, err := svc.Pitot(ctx, svc.Samples(ctx).Pitot)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.Greater(t, res.MeanCv, 0.0)
	assert.Equal(t, []string{"V0", "Vp"}, res.GraphParams)
	require.NotNil(t, res.Fit)
	assert.Contains(t, res.ModelCalculation, "Step 6: Calculate Cv")
	assertPNG(t, res.GraphBase64)
	assertPDF(t, res.PDFBase64)

	calc := latest(t, ctx, store)
	assert.Equal(t, model.CalcPitot, calc.Kind)
	assert.Equal(t, "Pitot Tube Experiment", calc.Reagent)
	assert.Equal(t, "Cv = V0/Vp", calc.Formula)
	assert.InDelta(t, res.MeanCv, calc.MassNeeded, 1e-9)
	assert.Equal(t, []model.ActionType{model.ActionFluidCalculation}, rec.actions)
	assert.Equal(t, "Pitot Tube experiment with 3 readings", rec.descs[0])
}

func TestPitotValidation(t *testing.T) {
	ctx, svc, _, rec := setup(t)

	cases := []struct {
		name string
		req  *calculator.PitotReq
		msg  string
	}{
		{"empty", &calculator.PitotReq{}, "No readings provided"},
		{
			"mismatch",
			&calculator.PitotReq{OrificeReadings: [][]any{{1.0, 2.0}}, PitotReadings: [][]any{{1.0, 2.0}, {1.0, 3.0}}},
			"Mismatched number of orifice and pitot readings",
		},
		{
			"not numeric",
			&calculator.PitotReq{OrificeReadings: [][]any{{"a", 2.0}}, PitotReadings: [][]any{{1.0, 2.0}}},
			"Invalid reading format. All values must be numbers.",
		},
		{
			"bad graph param",
			&calculator.PitotReq{OrificeReadings: [][]any{{1.0, 2.0}}, PitotReadings: [][]any{{1.0, 2.0}}, GraphParams: []string{"V0", "Q"}},
			"Invalid graph parameter: Q",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Pitot(ctx, tc.req)
			require.Error(t, err)
			_, msg := code.Parse(err)
			assert.Equal(t, tc.msg, msg)
		})
	}
	assert.Empty(t, rec.actions)

	_, err := svc.Pitot(context.Background(), &calculator.PitotReq{})
	assert.True(t, errors.Is(err, code.UnLogin))
}

func TestPitotStringReadingsAndGraphParams(t *testing.T) {
	ctx, svc, _, _ := setup(t)

	res, err := svc.Pitot(ctx, &calculator.PitotReq{
		OrificeReadings: [][]any{{"100", "150"}, {"100", "180"}},
		PitotReadings:   [][]any{{"100", "140"}, {"100", "170"}},
		GraphParams:     []string{"Ha0", "Hap"},
		Constants:       map[string]any{"Cd0": "0.6"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, res.Constants.Cd0, 1e-12)
	assert.Equal(t, 35.0, res.Constants.D)
	assert.Equal(t, []string{"Ha0", "Hap"}, res.GraphParams)
}

func TestVenturi(t *testing.T) {
	ctx, svc, store, rec := setup(t)

	res, err := svc.Venturi(ctx, svc.Samples(ctx).Venturi)
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Greater(t, res.MeanCd, 0.0)
	assert.Contains(t, res.ModelCalculation, "Step 6: Calculate discharge coefficient")
	assertPNG(t, res.GraphBase64)
	assertPDF(t, res.PDFBase64)

	calc := latest(t, ctx, store)
	assert.Equal(t, "Venturimeter Calibration", calc.Reagent)
	assert.Equal(t, "Cd = Qa/Qt", calc.Formula)
	assert.Equal(t, model.ActionVenturiCalculation, rec.actions[0])
	assert.Contains(t, rec.descs[0], "Venturimeter calibration with 2 trials, Mean Cd: ")

	req := svc.Samples(ctx).Venturi
	delete(req.Constants, "g")
	_, err = svc.Venturi(ctx, req)
	_, msg := code.Parse(err)
	assert.Equal(t, "Missing constant: g", msg)

	req = svc.Samples(ctx).Venturi
	req.Readings[1]["h1"] = 10.0
	_, err = svc.Venturi(ctx, req)
	require.Error(t, err)
	_, msg = code.Parse(err)
	assert.True(t, strings.HasPrefix(msg, "Trial 2:"))
}

func TestPump(t *testing.T) {
	ctx, svc, store, rec := setup(t)

	res, err := svc.Pump(ctx, svc.Samples(ctx).Pump)
	require.NoError(t, err)
	require.Len(t, res.Results, 5)
	assert.Greater(t, res.MeanEfficiency, 0.0)
	assert.Equal(t, 0.31, res.Constants.X)
	assert.Contains(t, res.ModelCalculation, "Step 5: Calculate Efficiency")
	assertPNG(t, res.GraphBase64)
	assertPDF(t, res.PDFBase64)

	calc := latest(t, ctx, store)
	assert.Equal(t, "Centrifugal Pump Test", calc.Reagent)
	assert.Equal(t, "η = (O/P / I/P) × 100", calc.Formula)
	assert.Equal(t, model.ActionPumpCalculation, rec.actions[0])
	assert.Equal(t, "Pump test with 5 trials", rec.descs[0])

	_, err = svc.Pump(ctx, &calculator.PumpReq{Trials: []map[string]any{{"P.G.": 1.0, "t": 1.0, "t_n": 1.0}}})
	_, msg := code.Parse(err)
	assert.Equal(t, "Invalid trial format. Each trial must have P.G., V.G., t, and t_n", msg)

	_, err = svc.Pump(ctx, &calculator.PumpReq{Trials: []map[string]any{{"P.G.": 1.0, "V.G.": "x", "t": 1.0, "t_n": 1.0}}})
	_, msg = code.Parse(err)
	assert.Equal(t, "Invalid trial data. All values must be numbers.", msg)
}

func TestWater(t *testing.T) {
	ctx, svc, store, rec := setup(t)

	res, err := svc.Water(ctx, svc.Samples(ctx).Water)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.InDelta(t, 90.0, res.Results[0].RemovalEff, 1e-9)
	assert.NotEmpty(t, res.SummaryReport)
	assert.NotEmpty(t, res.ModelCalculation)
	require.Len(t, res.Graphs, 2)
	for _, g := range res.Graphs {
		assertPNG(t, g.Base64)
		assert.True(t, strings.HasPrefix(g.Fit, "y = "))
	}
	assertPDF(t, res.PDFBase64)

	calc := latest(t, ctx, store)
	assert.Equal(t, "Water Treatment Plant Analysis", calc.Reagent)
	assert.Equal(t, "WTP Performance Metrics", calc.Formula)
	assert.InDelta(t, 90.0, calc.MassNeeded, 1e-9)
	assert.Equal(t, model.ActionWaterCalculation, rec.actions[0])
	assert.Equal(t, "WTP analysis with 3 trials", rec.descs[0])

	req := svc.Samples(ctx).Water
	delete(req.Readings[0], "filter_area_m2")
	_, err = svc.Water(ctx, req)
	_, msg := code.Parse(err)
	assert.Equal(t, "Missing or invalid field: filter_area_m2", msg)
}

func TestWaterSingleTrialSkipsGraphs(t *testing.T) {
	ctx, svc, _, _ := setup(t)

	req := svc.Samples(ctx).Water
	req.Readings = req.Readings[:1]
	res, err := svc.Water(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, res.Graphs)
	assertPDF(t, res.PDFBase64)
}

func TestOilGas(t *testing.T) {
	ctx, svc, store, rec := setup(t)

	res, err := svc.OilGas(ctx, svc.Samples(ctx).OilGas)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.Contains(t, res.SummaryReport, "Oil & Gas Process Analysis Report")
	require.Len(t, res.Graphs, 2)
	assert.Equal(t, "Flow Rate vs Pressure Drop", res.Graphs[0].Title)
	assertPDF(t, res.PDFBase64)

	calc := latest(t, ctx, store)
	assert.Equal(t, model.CalcOilGas, calc.Kind)
	assert.Equal(t, "η = Pw/Pi × 100", calc.Formula)
	assert.InDelta(t, res.MeanEfficiency, calc.MassNeeded, 1e-9)
	assert.Equal(t, model.ActionOilGasCalculation, rec.actions[0])

	req := svc.Samples(ctx).OilGas
	req.Readings[0]["rho_oil_kg_m3"] = 0.0
	_, err = svc.OilGas(ctx, req)
	assert.True(t, errors.Is(err, code.CalculationErr))
}

func TestDownloadPDF(t *testing.T) {
	ctx, svc, _, _ := setup(t)

	_, err := svc.DownloadPDF(ctx, &calculator.PDFReq{})
	assert.True(t, errors.Is(err, code.NoPDFData))

	_, err = svc.DownloadPDF(ctx, &calculator.PDFReq{PDFBase64: "!!!"})
	assert.True(t, errors.Is(err, code.ParamErr))

	data := base64.StdEncoding.EncodeToString([]byte("%PDF-1.3 test"))
	file, err := svc.DownloadPDF(ctx, &calculator.PDFReq{PDFBase64: data})
	require.NoError(t, err)
	assert.Equal(t, "calculation_report_05032024_140709.pdf", file.Name)
	assert.Equal(t, "%PDF-1.3 test", string(file.Data))

	file, err = svc.DownloadPDF(ctx, &calculator.PDFReq{PDFBase64: data, Kind: "pitot_tube_report"})
	require.NoError(t, err)
	assert.Equal(t, "pitot_tube_report_05032024_140709.pdf", file.Name)
}

func countCalculations(t *testing.T, ctx context.Context, store repo.CalculationRepo) int {
	t.Helper()
	list, err := store.ListCalculations(ctx, repo.CalculationQuery{UserID: 7})
	require.NoError(t, err)
	return len(list)
}

// within fails the test instead of hanging when fn never returns.
func within(t *testing.T, fn func() error) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("calculation did not finish")
		return nil
	}
}

func TestNonFiniteInputsAreRejected(t *testing.T) {
	ctx, svc, store, rec := setup(t)

	tests := []struct {
		name string
		call func() error
		code code.ErrCode
	}{
		{"venturi negative g", func() error {
			req := svc.Samples(ctx).Venturi
			req.Constants["g"] = -9.81
			_, err := svc.Venturi(ctx, req)
			return err
		}, code.CalculationErr},
		{"venturi zero tank", func() error {
			req := svc.Samples(ctx).Venturi
			req.Constants["tank_length"] = 0.0
			_, err := svc.Venturi(ctx, req)
			return err
		}, code.CalculationErr},
		{"pump zero energy constant", func() error {
			req := svc.Samples(ctx).Pump
			req.Constants = map[string]any{"Ec_rev_kwh": 0.0}
			_, err := svc.Pump(ctx, req)
			return err
		}, code.CalculationErr},
		{"pump NaN time", func() error {
			req := svc.Samples(ctx).Pump
			req.Trials[0]["t"] = "NaN"
			_, err := svc.Pump(ctx, req)
			return err
		}, code.ParamErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := within(t, tt.call)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code))
		})
	}
	assert.Zero(t, countCalculations(t, ctx, store))
	assert.Empty(t, rec.actions)
}

func TestCompleteRejectsUnserializableOutputs(t *testing.T) {
	ctx, svc, store, rec := setup(t)

	err := svc.complete(ctx, auth.GetCurrentUser(ctx), run{
		kind:    model.CalcPump,
		inputs:  map[string]float64{"Ec_rev_kwh": 750},
		outputs: map[string]float64{"input_kw": math.Inf(1)},
		action:  model.ActionPumpCalculation,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, code.CreateDataErr))
	assert.Zero(t, countCalculations(t, ctx, store))
	assert.Empty(t, rec.actions)
}
