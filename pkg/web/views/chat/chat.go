package chat

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/chat"
	impl "github.com/scienceol/labmate/pkg/core/chat/chat"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type Handle struct {
	cService chat.Service
	socket   chat.Socket
}

func NewChatHandle(ctx context.Context) *Handle {
	svc := impl.New()
	return &Handle{cService: svc, socket: impl.NewSocket(ctx, svc)}
}

func (h *Handle) Send(ctx *gin.Context) {
	req := &chat.SendReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse chat Send param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.Send(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) History(ctx *gin.Context) {
	req := &chat.HistoryReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse chat History param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.cService.History(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Clear(ctx *gin.Context) {
	resp, err := h.cService.Clear(ctx)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Connect(ctx *gin.Context) {
	h.socket.Connect(ctx)
}

func (h *Handle) Close(ctx context.Context) {
	h.socket.Close(ctx)
}
