package experiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/core/activity"
	aImpl "github.com/scienceol/labmate/pkg/core/activity/activity"
	"github.com/scienceol/labmate/pkg/core/experiment"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/repo"
	eStore "github.com/scienceol/labmate/pkg/repo/experiment"
	"github.com/scienceol/labmate/pkg/repo/model"
	"github.com/scienceol/labmate/pkg/utils"
)

type experimentImpl struct {
	store    repo.ExperimentRepo
	recorder activity.Recorder
}

func New() experiment.Service {
	return NewWith(eStore.NewExperimentRepo(), aImpl.New())
}

func NewWith(store repo.ExperimentRepo, recorder activity.Recorder) experiment.Service {
	return &experimentImpl{store: store, recorder: recorder}
}

func (e *experimentImpl) Create(ctx context.Context, req *experiment.CreateReq) (*experiment.Resp, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, code.ExperimentTitleEmpty
	}

	data := &model.Experiment{
		UserID:       userInfo.ID,
		Title:        title,
		Description:  req.Description,
		Procedures:   req.Procedures,
		Observations: req.Observations,
		Results:      req.Results,
	}
	if err := e.store.CreateExperiment(ctx, data); err != nil {
		return nil, code.CreateDataErr.WithErr(err)
	}

	e.recorder.Log(ctx, userInfo.ID, model.ActionExperiment, fmt.Sprintf("Created new experiment: %s", title))
	return experiment.NewResp(data), nil
}

func (e *experimentImpl) List(ctx context.Context) ([]*experiment.Resp, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	list, err := e.store.ListExperiments(ctx, userInfo.ID, 0)
	if err != nil {
		return nil, err
	}
	return utils.FilterSlice(list, func(m *model.Experiment) (*experiment.Resp, bool) {
		return experiment.NewResp(m), true
	}), nil
}

func (e *experimentImpl) Get(ctx context.Context, id uuid.UUID) (*experiment.Resp, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	data, err := e.store.GetExperiment(ctx, userInfo.ID, id)
	if err != nil {
		return nil, err
	}
	return experiment.NewResp(data), nil
}

func (e *experimentImpl) Latest(ctx context.Context) (*experiment.Resp, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	data, err := e.store.LatestExperiment(ctx, userInfo.ID)
	if errors.Is(err, code.RecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return experiment.NewResp(data), nil
}

func (e *experimentImpl) Delete(ctx context.Context, id uuid.UUID) (*experiment.DeleteResp, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	data, err := e.store.GetExperiment(ctx, userInfo.ID, id)
	if err != nil {
		return nil, err
	}
	if err := e.store.DeleteExperiment(ctx, userInfo.ID, id); err != nil {
		return nil, err
	}

	e.recorder.Log(ctx, userInfo.ID, model.ActionExperimentDeletion, fmt.Sprintf("Deleted experiment: %s", data.Title))
	return &experiment.DeleteResp{
		Message: fmt.Sprintf("Experiment \"%s\" deleted successfully", data.Title),
	}, nil
}
