package activity

import (
	"context"
	"time"

	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/activity"
	"github.com/scienceol/labmate/pkg/core/notify"
	"github.com/scienceol/labmate/pkg/core/notify/events"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	aStore "github.com/scienceol/labmate/pkg/repo/activity"
	cStore "github.com/scienceol/labmate/pkg/repo/calculation"
	"github.com/scienceol/labmate/pkg/repo/model"
	uStore "github.com/scienceol/labmate/pkg/repo/user"
	"github.com/scienceol/labmate/pkg/utils"
)

type activityImpl struct {
	activityStore repo.ActivityRepo
	calcStore     repo.CalculationRepo
	userStore     repo.UserRepo
	msgCenter     notify.MsgCenter
}

func New() activity.Service {
	return NewWith(aStore.NewActivityRepo(), cStore.NewCalculationRepo(), uStore.NewUserRepo(), events.NewEvents())
}

func NewWith(a repo.ActivityRepo, c repo.CalculationRepo, u repo.UserRepo, mc notify.MsgCenter) activity.Service {
	return &activityImpl{
		activityStore: a,
		calcStore:     c,
		userStore:     u,
		msgCenter:     mc,
	}
}

// Log 审计日志写入失败只记录错误，不影响调用方
func (a *activityImpl) Log(ctx context.Context, userID int64, action model.ActionType, description string) {
	entry := &model.ActivityLog{
		UserID:      userID,
		ActionType:  action,
		Description: description,
		Timestamp:   time.Now(),
	}
	if err := a.activityStore.CreateActivity(ctx, entry); err != nil {
		logger.Errorf(ctx, "log activity fail user: %d, action: %s, err: %+v", userID, action, err)
		return
	}

	if a.msgCenter == nil {
		return
	}
	if err := a.msgCenter.Broadcast(ctx, &notify.SendMsg{
		Channel: notify.ActivityLog,
		UserID:  userID,
		Data:    activity.NewEntry(entry),
	}); err != nil {
		logger.Warnf(ctx, "broadcast activity fail user: %d, err: %+v", userID, err)
	}
}

func (a *activityImpl) List(ctx context.Context, req *activity.ListReq) (*common.PageMoreResp[[]*activity.Entry], error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}

	page := common.PageReq{Page: req.Page, PageSize: activity.PageSize}
	page.Normalize()

	q := repo.ActivityQuery{
		UserID: userInfo.ID,
		Offset: page.Offest(),
		Limit:  page.PageSize,
	}
	if req.Search != "" {
		q.Search = &req.Search
	}
	if req.ActionType != "" {
		q.ActionType = &req.ActionType
	}
	if req.Date != "" {
		if day, err := time.ParseInLocation(activity.DateLayout, req.Date, time.Local); err == nil {
			q.Day = &day
		} else {
			logger.Warnf(ctx, "ignore malformed activity date filter: %s", req.Date)
		}
	}

	logs, total, err := a.activityStore.ListActivities(ctx, q)
	if err != nil {
		return nil, err
	}

	entries := utils.FilterSlice(logs, func(l *model.ActivityLog) (*activity.Entry, bool) {
		return activity.NewEntry(l), true
	})
	return common.NewPageMoreResp(entries, total, page.Page, page.PageSize), nil
}

func (a *activityImpl) Dashboard(ctx context.Context) (*activity.DashboardResp, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}

	calcs, err := a.calcStore.ListCalculations(ctx, repo.CalculationQuery{UserID: userInfo.ID, Limit: activity.RecentSize})
	if err != nil {
		return nil, err
	}
	logs, totalActivities, err := a.activityStore.ListActivities(ctx, repo.ActivityQuery{UserID: userInfo.ID, Limit: activity.RecentSize})
	if err != nil {
		return nil, err
	}
	totalCalcs, err := a.calcStore.CountCalculations(ctx, userInfo.ID)
	if err != nil {
		return nil, err
	}

	return &activity.DashboardResp{
		User: userInfo,
		RecentCalculations: utils.FilterSlice(calcs, func(c *model.Calculation) (*activity.CalculationEntry, bool) {
			return activity.NewCalculationEntry(c), true
		}),
		RecentActivities: utils.FilterSlice(logs, func(l *model.ActivityLog) (*activity.Entry, bool) {
			return activity.NewEntry(l), true
		}),
		TotalCalculations: totalCalcs,
		TotalActivities:   totalActivities,
	}, nil
}

func (a *activityImpl) AllUsers(ctx context.Context, req *common.PageReq) (*common.PageResp[[]*activity.UserResp], error) {
	if !auth.GetCurrentUser(ctx).HasAccess(common.LevelManager) {
		return nil, code.NoPermission
	}
	req.Normalize()

	users, total, err := a.userStore.ListUsers(ctx, req.Offest(), req.PageSize)
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*activity.UserResp]{
		Data: utils.FilterSlice(users, func(u *model.User) (*activity.UserResp, bool) {
			return &activity.UserResp{
				UUID:        u.UUID,
				Name:        u.Name,
				Role:        u.Role,
				Institution: u.Institution,
				UserType:    u.UserType,
				AccessLevel: u.AccessLevel,
				CreatedAt:   u.CreatedAt,
			}, true
		}),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
