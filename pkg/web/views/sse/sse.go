package sse

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/notify/hub"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

const (
	heartbeatPeriod = 15 * time.Second
	eventActivity   = "activity"
)

type Handle struct {
	hub       *hub.Hub
	heartbeat time.Duration
}

func NewSSEHandle(h *hub.Hub) *Handle {
	return &Handle{hub: h, heartbeat: heartbeatPeriod}
}

// Notify streams the current user's activity entries until the client leaves.
func (h *Handle) Notify(ctx *gin.Context) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		common.ReplyErr(ctx, code.UnLogin)
		return
	}

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Header().Set("X-Accel-Buffering", "no")

	msgs, cancel := h.hub.Subscribe(userInfo.ID)
	defer cancel()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	// 首帧让客户端尽快确认连接
	_, _ = fmt.Fprint(ctx.Writer, ": connected\n\n")
	ctx.Writer.Flush()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return false
			}
			return true
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			ctx.SSEvent(eventActivity, msg.Data)
			return true
		}
	})
	logger.Infof(ctx, "sse stream closed user: %d", userInfo.ID)
}
