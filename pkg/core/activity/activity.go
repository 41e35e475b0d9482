package activity

import (
	"context"

	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/repo/model"
)

// Recorder is the audit hook every feature calls after a user action.
type Recorder interface {
	Log(ctx context.Context, userID int64, action model.ActionType, description string)
}

type Service interface {
	Recorder

	List(ctx context.Context, req *ListReq) (*common.PageMoreResp[[]*Entry], error)
	Dashboard(ctx context.Context) (*DashboardResp, error)
	AllUsers(ctx context.Context, req *common.PageReq) (*common.PageResp[[]*UserResp], error)
}
