package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/panjf2000/ants/v2"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/core/chat"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

const (
	maxMessageSize = 64 * 1024
	pingPeriod     = 10 * time.Second
	socketPoolSize = 100

	keyCtx     = "ctx"
	keyUser    = "user"
	keySession = "session_id"
)

type socket struct {
	wsClient *melody.Melody                       // websocket 连接控制
	service  chat.Service                         // 复用 Send 流程
	sessions *haxmap.Map[uint64, *melody.Session] // 在线会话
	pools    *ants.Pool                           // 回复任务池
	nextID   atomic.Uint64
	wg       sync.WaitGroup
}

func NewSocket(ctx context.Context, svc chat.Service) chat.Socket {
	wsClient := melody.New()
	wsClient.Config.MaxMessageSize = maxMessageSize
	wsClient.Config.PingPeriod = pingPeriod

	s := &socket{
		wsClient: wsClient,
		service:  svc,
		sessions: haxmap.New[uint64, *melody.Session](),
	}
	s.pools, _ = ants.NewPool(socketPoolSize)
	if s.pools == nil {
		logger.Errorf(ctx, "failed to create chat socket pool, using default")
		s.pools, _ = ants.NewPool(ants.DefaultAntsPoolSize)
	}
	s.initWebSocket()
	return s
}

// Connect upgrades an authenticated request to the chat socket.
func (s *socket) Connect(ctx *gin.Context) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		common.ReplyErr(ctx, code.UnLogin)
		return
	}

	if err := s.wsClient.HandleRequestWithKeys(ctx.Writer, ctx.Request, map[string]any{
		keyCtx:     context.WithoutCancel(auth.WithUser(ctx.Request.Context(), userInfo)),
		keyUser:    userInfo,
		keySession: s.nextID.Add(1),
	}); err != nil {
		logger.Errorf(ctx, "chat socket HandleRequestWithKeys fail err: %+v", err)
	}
}

func (s *socket) initWebSocket() {
	s.wsClient.HandleConnect(func(sess *melody.Session) {
		s.sessions.Set(sess.MustGet(keySession).(uint64), sess)
	})

	s.wsClient.HandleDisconnect(func(sess *melody.Session) {
		s.sessions.Del(sess.MustGet(keySession).(uint64))
	})

	s.wsClient.HandleError(func(sess *melody.Session, err error) {
		if errors.Is(err, melody.ErrMessageBufferFull) {
			return
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseGoingAway {
			return
		}
		if ctx, ok := sess.Get(keyCtx); ok {
			logger.Infof(ctx.(context.Context), "chat socket HandleError err: %+v", err)
		}
	})

	s.wsClient.HandleMessage(func(sess *melody.Session, b []byte) {
		sessionCtx := sess.MustGet(keyCtx).(context.Context)
		s.wg.Add(1)
		err := s.pools.Submit(func() {
			defer s.wg.Done()
			s.onMessage(sessionCtx, sess, b)
		})
		if err != nil {
			s.wg.Done()
			logger.Errorf(sessionCtx, "chat socket submit task err: %+v", err)
			s.write(sessionCtx, sess, &chat.SocketMsg{Error: "server busy, please retry"})
		}
	})
}

// onMessage 每个文本帧走一次完整的 Send 流程
func (s *socket) onMessage(ctx context.Context, sess *melody.Session, b []byte) {
	req := &chat.SocketMsg{}
	if err := json.Unmarshal(b, req); err != nil {
		s.write(ctx, sess, &chat.SocketMsg{Error: "invalid message format"})
		return
	}
	resp, err := s.service.Send(ctx, &chat.SendReq{Message: req.Message})
	if err != nil {
		_, msg := code.Parse(err)
		s.write(ctx, sess, &chat.SocketMsg{Error: msg})
		return
	}
	s.write(ctx, sess, &chat.SocketMsg{Response: resp.Response, Timestamp: &resp.Timestamp})
}

func (s *socket) write(ctx context.Context, sess *melody.Session, msg *chat.SocketMsg) {
	data, _ := json.Marshal(msg)
	if err := sess.Write(data); err != nil && !errors.Is(err, melody.ErrSessionClosed) {
		logger.Warnf(ctx, "chat socket write err: %+v", err)
	}
}

// Close 关闭所有连接并等待进行中的回复
func (s *socket) Close(ctx context.Context) {
	if s.wsClient != nil {
		if err := s.wsClient.CloseWithMsg(websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown")); err != nil {
			logger.Errorf(ctx, "chat socket CloseWithMsg err: %+v", err)
		}
	}
	s.wg.Wait()
	if s.pools != nil {
		s.pools.Release()
	}
}

func (s *socket) online() int {
	return int(s.sessions.Len())
}
