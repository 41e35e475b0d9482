package login

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	ls "github.com/scienceol/labmate/pkg/core/login"
	impl "github.com/scienceol/labmate/pkg/core/login/login"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type Login struct {
	lService ls.Service
}

func NewLogin() *Login {
	return &Login{lService: impl.New()}
}

func NewLoginWith(svc ls.Service) *Login {
	return &Login{lService: svc}
}

func (l *Login) Roles(ctx *gin.Context) {
	common.ReplyOk(ctx, l.lService.Roles(ctx))
}

func (l *Login) Login(ctx *gin.Context) {
	req := &ls.LoginReq{}
	if err := ctx.ShouldBind(req); err != nil {
		logger.Errorf(ctx, "Invalid login request: %v", err)
		common.ReplyErr(ctx, code.ParamErr, "Name and role are required")
		return
	}
	resp, err := l.lService.Login(ctx, req)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	// 浏览器走 cookie 会话，API 客户端直接使用返回的 token
	if err := auth.SaveSession(ctx, resp.Token); err != nil {
		logger.Warnf(ctx, "save login session err: %+v", err)
	}
	common.ReplyOk(ctx, resp)
}

func (l *Login) Logout(ctx *gin.Context) {
	resp, err := l.lService.Logout(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	if err := auth.ClearSession(ctx); err != nil {
		logger.Warnf(ctx, "clear login session err: %+v", err)
	}
	common.ReplyOk(ctx, resp)
}

func (l *Login) Me(ctx *gin.Context) {
	resp, err := l.lService.Me(ctx)
	common.Reply(ctx, err, resp)
}
