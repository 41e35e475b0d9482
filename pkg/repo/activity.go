package repo

import (
	"context"
	"time"

	"github.com/scienceol/labmate/pkg/repo/model"
)

type ActivityQuery struct {
	UserID     int64
	Search     *string
	ActionType *string
	// Day 非空时只返回该自然日的记录
	Day    *time.Time
	Offset int
	Limit  int
}

type ActionCount struct {
	ActionType string `json:"action_type"`
	Count      int64  `json:"count"`
}

type ActivityRepo interface {
	IDOrUUIDTranslate

	CreateActivity(ctx context.Context, data *model.ActivityLog) error
	ListActivities(ctx context.Context, q ActivityQuery) ([]*model.ActivityLog, int64, error)
	CountActivities(ctx context.Context, userID int64) (int64, error)
	CountByActionType(ctx context.Context, userID int64) ([]*ActionCount, error)
}
