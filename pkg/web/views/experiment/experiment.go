package experiment

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/core/experiment"
	impl "github.com/scienceol/labmate/pkg/core/experiment/experiment"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type Handle struct {
	eService experiment.Service
}

func NewExperimentHandle() *Handle {
	return &Handle{eService: impl.New()}
}

// ParseUUID 解析路径中的 :uuid，失败时已回复 ParamErr
func ParseUUID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(ctx.Param("uuid"))
	if err != nil {
		logger.Errorf(ctx, "parse uuid param err: %+v", err)
		common.ReplyErr(ctx, code.ParamErr, "invalid experiment id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handle) Create(ctx *gin.Context) {
	req := &experiment.CreateReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse experiment Create param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.eService.Create(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) List(ctx *gin.Context) {
	resp, err := h.eService.List(ctx)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Get(ctx *gin.Context) {
	id, ok := ParseUUID(ctx)
	if !ok {
		return
	}
	resp, err := h.eService.Get(ctx, id)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Delete(ctx *gin.Context) {
	id, ok := ParseUUID(ctx)
	if !ok {
		return
	}
	resp, err := h.eService.Delete(ctx, id)
	common.Reply(ctx, err, resp)
}
