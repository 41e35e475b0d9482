package calculation

import (
	"context"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/model"
)

type calculationImpl struct {
	repo.IDOrUUIDTranslate
}

func NewCalculationRepo() repo.CalculationRepo {
	return &calculationImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func (c *calculationImpl) CreateCalculation(ctx context.Context, data *model.Calculation) error {
	if err := c.CreateData(ctx, data); err != nil {
		logger.Errorf(ctx, "CreateCalculation kind: %s err: %+v", data.Kind, err)
		return err
	}
	return nil
}

func (c *calculationImpl) ListCalculations(ctx context.Context, q repo.CalculationQuery) ([]*model.Calculation, error) {
	db := c.DBWithContext(ctx).Model(&model.Calculation{}).Where("user_id = ?", q.UserID)
	if q.Kind != nil {
		db = db.Where("kind = ?", *q.Kind)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	list := make([]*model.Calculation, 0, q.Limit)
	if err := db.Order("created_at desc, id desc").Find(&list).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

func (c *calculationImpl) CountCalculations(ctx context.Context, userID int64) (int64, error) {
	var total int64
	if err := c.DBWithContext(ctx).Model(&model.Calculation{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}
