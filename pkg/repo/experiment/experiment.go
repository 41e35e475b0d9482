package experiment

import (
	"context"
	"errors"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/model"
	"gorm.io/gorm"
)

type experimentImpl struct {
	repo.IDOrUUIDTranslate
}

func NewExperimentRepo() repo.ExperimentRepo {
	return &experimentImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func (e *experimentImpl) CreateExperiment(ctx context.Context, data *model.Experiment) error {
	return e.CreateData(ctx, data)
}

func (e *experimentImpl) ListExperiments(ctx context.Context, userID int64, limit int) ([]*model.Experiment, error) {
	db := e.DBWithContext(ctx).Where("user_id = ?", userID).Order("created_at desc, id desc")
	if limit > 0 {
		db = db.Limit(limit)
	}
	list := make([]*model.Experiment, 0, limit)
	if err := db.Find(&list).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (e *experimentImpl) GetExperiment(ctx context.Context, userID int64, id uuid.UUID) (*model.Experiment, error) {
	data := &model.Experiment{}
	err := e.DBWithContext(ctx).
		Where("uuid = ? AND user_id = ?", id, userID).
		Take(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.RecordNotFound.WithMsg("Experiment not found")
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (e *experimentImpl) LatestExperiment(ctx context.Context, userID int64) (*model.Experiment, error) {
	data := &model.Experiment{}
	err := e.DBWithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Take(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.RecordNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (e *experimentImpl) DeleteExperiment(ctx context.Context, userID int64, id uuid.UUID) error {
	res := e.DBWithContext(ctx).
		Where("uuid = ? AND user_id = ?", id, userID).
		Delete(&model.Experiment{})
	if res.Error != nil {
		logger.Errorf(ctx, "DeleteExperiment err: %+v", res.Error)
		return code.DeleteDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.RecordNotFound.WithMsg("Experiment not found")
	}
	return nil
}
