package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labmate/internal/testutil"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/core/experiment"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	eStore "github.com/scienceol/labmate/pkg/repo/experiment"
	"github.com/scienceol/labmate/pkg/repo/model"
)

type logLine struct {
	userID int64
	action model.ActionType
	desc   string
}

type recorder struct {
	lines []logLine
}

func (r *recorder) Log(_ context.Context, userID int64, action model.ActionType, desc string) {
	r.lines = append(r.lines, logLine{userID, action, desc})
}

func TestExperimentLifecycle(t *testing.T) {
	testutil.SetupDB(t)
	rec := &recorder{}
	svc := NewWith(eStore.NewExperimentRepo(), rec)
	ctx := auth.WithUser(context.Background(), &auth.UserInfo{ID: 1, Name: "ada"})
	other := auth.WithUser(context.Background(), &auth.UserInfo{ID: 2, Name: "bob"})

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = svc.Create(ctx, &experiment.CreateReq{Title: "   "})
	assert.True(t, errors.Is(err, code.ExperimentTitleEmpty))

	first, err := svc.Create(ctx, &experiment.CreateReq{Title: "Titration", Procedures: "Add NaOH dropwise"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &experiment.CreateReq{Title: "Calibration"})
	require.NoError(t, err)
	require.Len(t, rec.lines, 2)
	assert.Equal(t, "Created new experiment: Titration", rec.lines[0].desc)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.UUID, list[0].UUID)

	latest, err = svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Calibration", latest.Title)

	got, err := svc.Get(ctx, first.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Add NaOH dropwise", got.Procedures)

	_, err = svc.Get(other, first.UUID)
	assert.True(t, errors.Is(err, code.RecordNotFound))
	_, err = svc.Delete(other, first.UUID)
	assert.True(t, errors.Is(err, code.RecordNotFound))
	_, err = svc.Delete(ctx, uuid.NewV4())
	assert.True(t, errors.Is(err, code.RecordNotFound))

	resp, err := svc.Delete(ctx, first.UUID)
	require.NoError(t, err)
	assert.Equal(t, `Experiment "Titration" deleted successfully`, resp.Message)
	assert.Equal(t, model.ActionExperimentDeletion, rec.lines[len(rec.lines)-1].action)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(context.Background())
	assert.True(t, errors.Is(err, code.UnLogin))
}
