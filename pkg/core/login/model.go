package login

import (
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/middleware/auth"
)

type LoginReq struct {
	Name        string      `json:"name" form:"name" binding:"required"`
	Role        common.Role `json:"role" form:"role" binding:"required"`
	Institution string      `json:"institution" form:"institution"`
}

type Resp struct {
	Token     string         `json:"token"`
	TokenType string         `json:"token_type"`
	ExpiresIn int64          `json:"expires_in"`
	User      *auth.UserInfo `json:"user"`
}

type LogoutResp struct {
	Message string `json:"message"`
}
