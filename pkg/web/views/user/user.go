package user

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/activity"
	impl "github.com/scienceol/labmate/pkg/core/activity/activity"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type Handle struct {
	aService activity.Service
}

func NewUserHandle() *Handle {
	return &Handle{aService: impl.New()}
}

func (h *Handle) Dashboard(ctx *gin.Context) {
	resp, err := h.aService.Dashboard(ctx)
	common.Reply(ctx, err, resp)
}

// List 仅实验室管理员可见
func (h *Handle) List(ctx *gin.Context) {
	req := &common.PageReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse user List param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.aService.AllUsers(ctx, req)
	common.Reply(ctx, err, resp)
}
