package activity

import (
	"context"
	"testing"
	"time"

	"github.com/scienceol/labmate/internal/testutil"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRepo(t *testing.T) {
	testutil.SetupDB(t)
	ctx := context.Background()
	a := NewActivityRepo()

	yesterday := time.Now().Add(-24 * time.Hour)
	logs := []*model.ActivityLog{
		{UserID: 1, ActionType: model.ActionAuthentication, Description: "Logged in as Researcher", Timestamp: yesterday},
		{UserID: 1, ActionType: model.ActionCalculation, Description: "Calculated NaCl solution"},
		{UserID: 1, ActionType: model.ActionCalculation, Description: "Calculated HCl solution"},
		{UserID: 2, ActionType: model.ActionChatbot, Description: "Asked about NaCl"},
	}
	for _, l := range logs {
		require.NoError(t, a.CreateActivity(ctx, l))
		assert.False(t, l.Timestamp.IsZero())
	}

	total, err := a.CountActivities(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	search := "nacl"
	list, n, err := a.ListActivities(ctx, repo.ActivityQuery{UserID: 1, Search: &search})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.Len(t, list, 1)
	assert.Equal(t, "Calculated NaCl solution", list[0].Description)

	action := string(model.ActionCalculation)
	_, n, err = a.ListActivities(ctx, repo.ActivityQuery{UserID: 1, ActionType: &action})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, n, err = a.ListActivities(ctx, repo.ActivityQuery{UserID: 1, Day: &yesterday})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	page, n, err := a.ListActivities(ctx, repo.ActivityQuery{UserID: 1, Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Len(t, page, 1)

	counts, err := a.CountByActionType(ctx, 1)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, string(model.ActionCalculation), counts[0].ActionType)
	assert.EqualValues(t, 2, counts[0].Count)
}
