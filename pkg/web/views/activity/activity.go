package activity

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

func NewActivityHandle() *Handle {
	return &Handle{aService: impl.New()}
}

func (h *Handle) List(ctx *gin.Context) {
	req := &activity.ListReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse activity List param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.aService.List(ctx, req)
	common.Reply(ctx, err, resp)
}
