package chat

import (
	"context"

	"github.com/gin-gonic/gin"
)

type Service interface {
	Send(ctx context.Context, req *SendReq) (*SendResp, error)
	History(ctx context.Context, req *HistoryReq) (*HistoryResp, error)
	Clear(ctx context.Context) (*ClearResp, error)
}

// Socket serves the streaming chat over a websocket.
type Socket interface {
	Connect(ctx *gin.Context)
	Close(ctx context.Context)
}
