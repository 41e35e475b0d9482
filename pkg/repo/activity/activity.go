package activity

import (
	"context"
	"strings"
	"time"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/model"
)

type activityImpl struct {
	repo.IDOrUUIDTranslate
}

func NewActivityRepo() repo.ActivityRepo {
	return &activityImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func (a *activityImpl) CreateActivity(ctx context.Context, data *model.ActivityLog) error {
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now()
	}
	return a.CreateData(ctx, data)
}

func (a *activityImpl) ListActivities(ctx context.Context, q repo.ActivityQuery) ([]*model.ActivityLog, int64, error) {
	db := a.DBWithContext(ctx).Model(&model.ActivityLog{}).Where("user_id = ?", q.UserID)

	if q.Search != nil && *q.Search != "" {
		// LOWER LIKE keeps the filter portable between postgres and sqlite
		db = db.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(*q.Search)+"%")
	}
	if q.ActionType != nil && *q.ActionType != "" {
		db = db.Where("action_type = ?", *q.ActionType)
	}
	if q.Day != nil {
		start := time.Date(q.Day.Year(), q.Day.Month(), q.Day.Day(), 0, 0, 0, 0, q.Day.Location())
		db = db.Where("timestamp >= ? AND timestamp < ?", start, start.AddDate(0, 0, 1))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if q.Limit == 0 {
		q.Limit = 20
	}

	// 负数表示不分页，报表导出使用
	list := make([]*model.ActivityLog, 0, max(q.Limit, 0))
	if err := db.Order("timestamp desc, id desc").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (a *activityImpl) CountActivities(ctx context.Context, userID int64) (int64, error) {
	var total int64
	if err := a.DBWithContext(ctx).Model(&model.ActivityLog{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return total, nil
}

func (a *activityImpl) CountByActionType(ctx context.Context, userID int64) ([]*repo.ActionCount, error) {
	res := make([]*repo.ActionCount, 0, 16)
	if err := a.DBWithContext(ctx).Model(&model.ActivityLog{}).
		Select("action_type, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("action_type").
		Order("count desc, action_type").
		Scan(&res).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return res, nil
}
