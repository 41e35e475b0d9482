package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labmate/internal/testutil"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/core/report"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/repo"
	actStore "github.com/scienceol/labmate/pkg/repo/activity"
	cStore "github.com/scienceol/labmate/pkg/repo/calculation"
	eStore "github.com/scienceol/labmate/pkg/repo/experiment"
	"github.com/scienceol/labmate/pkg/repo/model"
)

var fixed = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

type fixture struct {
	ctx  context.Context
	svc  report.Service
	exps repo.ExperimentRepo
	calc repo.CalculationRepo
	acts repo.ActivityRepo
}

func setup(t *testing.T) *fixture {
	t.Helper()
	testutil.SetupDB(t)
	f := &fixture{
		ctx:  auth.WithUser(context.Background(), &auth.UserInfo{ID: 5, Name: "curie"}),
		exps: eStore.NewExperimentRepo(),
		calc: cStore.NewCalculationRepo(),
		acts: actStore.NewActivityRepo(),
	}
	f.svc = NewWith(f.calc, f.exps, f.acts, func() time.Time { return fixed })
	return f
}

func assertPDF(t *testing.T, file *report.File, name string) {
	t.Helper()
	require.NotNil(t, file)
	assert.Equal(t, name, file.Name)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
}

func TestCalculations(t *testing.T) {
	f := setup(t)

	empty, err := f.svc.Calculations(f.ctx)
	require.NoError(t, err)
	assertPDF(t, empty, "calculations_report_05032024_140709.pdf")

	require.NoError(t, f.calc.CreateCalculation(f.ctx, &model.Calculation{
		UserID: 5, Kind: model.CalcReagent, Reagent: "Glucose", Formula: "C6H12O6",
		Molarity: 0.5, Volume: 250, MassNeeded: 22.5195,
	}))
	require.NoError(t, f.calc.CreateCalculation(f.ctx, &model.Calculation{
		UserID: 5, Kind: model.CalcPitot, Reagent: "Pitot Tube Experiment", MassNeeded: 0.97,
	}))
	full, err := f.svc.Calculations(f.ctx)
	require.NoError(t, err)
	assert.Greater(t, len(full.Data), len(empty.Data))

	_, err = f.svc.Calculations(context.Background())
	assert.True(t, errors.Is(err, code.UnLogin))
}

func TestOrNA(t *testing.T) {
	assert.Equal(t, "N/A", orNA(0, 2))
	assert.Equal(t, "0.10", orNA(0.1, 2))
	assert.Equal(t, "5.8440", orNA(5.844, 4))
}

func TestExperimentReports(t *testing.T) {
	f := setup(t)

	current, err := f.svc.CurrentExperiment(f.ctx)
	require.NoError(t, err)
	assertPDF(t, current, "current_experiment_05032024_140709.pdf")

	lab, err := f.svc.LabReport(f.ctx)
	require.NoError(t, err)
	assertPDF(t, lab, "lab_report_05032024_140709.pdf")

	e := &model.Experiment{UserID: 5, Title: "Titration", Description: "NaOH vs HCl", Results: "0.098 M"}
	require.NoError(t, f.exps.CreateExperiment(f.ctx, e))
	require.NoError(t, f.exps.CreateExperiment(f.ctx, &model.Experiment{UserID: 6, Title: "Other"}))

	single, err := f.svc.Experiment(f.ctx, e.UUID)
	require.NoError(t, err)
	assertPDF(t, single, "experiment_"+e.UUID.String()[:8]+"_05032024_140709.pdf")

	_, err = f.svc.Experiment(f.ctx, uuid.NewV4())
	assert.True(t, errors.Is(err, code.RecordNotFound))

	current, err = f.svc.CurrentExperiment(f.ctx)
	require.NoError(t, err)
	assertPDF(t, current, "current_experiment_05032024_140709.pdf")

	lab, err = f.svc.LabReport(f.ctx)
	require.NoError(t, err)
	assertPDF(t, lab, "lab_report_05032024_140709.pdf")
}

func TestActivityLogs(t *testing.T) {
	f := setup(t)

	for i := range 25 {
		require.NoError(t, f.acts.CreateActivity(f.ctx, &model.ActivityLog{
			UserID:      5,
			ActionType:  model.ActionCalculation,
			Description: "Calculated Sodium Chloride",
			Timestamp:   fixed.Add(-time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, f.acts.CreateActivity(f.ctx, &model.ActivityLog{
		UserID: 5, ActionType: model.ActionAuthentication, Description: "User curie (Researcher) logged in as researcher", Timestamp: fixed,
	}))

	all, total, err := f.acts.ListActivities(f.ctx, repo.ActivityQuery{UserID: 5, Limit: -1})
	require.NoError(t, err)
	assert.EqualValues(t, 26, total)
	assert.Len(t, all, 26)

	file, err := f.svc.ActivityLogs(f.ctx)
	require.NoError(t, err)
	assertPDF(t, file, "activity_logs_05032024_140709.pdf")
}
