package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/token"
	"github.com/scienceol/labmate/pkg/repo/user"
	"github.com/scienceol/labmate/pkg/utils"
)

type AuthType string

const (
	AuthTypeBearer AuthType = "Bearer"
)

// UserInfo is the authenticated caller, refreshed from the users table on
// every request so role changes apply immediately.
type UserInfo struct {
	ID          int64              `json:"-"`
	UUID        uuid.UUID          `json:"uuid"`
	Name        string             `json:"name"`
	Role        common.Role        `json:"role"`
	Institution string             `json:"institution"`
	UserType    common.UserType    `json:"user_type"`
	AccessLevel common.AccessLevel `json:"access_level"`
	TokenID     string             `json:"-"`
	ExpiresAt   time.Time          `json:"-"`
}

func (u *UserInfo) HasAccess(level common.AccessLevel) bool {
	return u != nil && u.AccessLevel >= level
}

type Authenticator struct {
	users  repo.UserRepo
	tokens repo.TokenRepo
	secret string
}

func NewAuthenticator() *Authenticator {
	return &Authenticator{
		users:  user.NewUserRepo(),
		tokens: token.NewTokenRepo(),
		secret: config.Global().Auth.JWTSecret,
	}
}

func NewAuthenticatorWith(users repo.UserRepo, tokens repo.TokenRepo, secret string) *Authenticator {
	return &Authenticator{users: users, tokens: tokens, secret: secret}
}

// Verify 校验 jwt 签名、吊销状态并加载最新用户信息
func (a *Authenticator) Verify(ctx context.Context, tokenStr string) (*UserInfo, error) {
	claims, err := utils.ParseJWT(tokenStr, a.secret)
	if err != nil {
		return nil, code.InvalidToken.WithErr(err)
	}

	active, err := a.tokens.IsActive(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, code.InvalidToken.WithMsg("token has been revoked")
	}

	u, err := a.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, code.InvalidToken.WithErr(err)
	}

	info := &UserInfo{
		ID:          u.ID,
		UUID:        u.UUID,
		Name:        u.Name,
		Role:        u.Role,
		Institution: u.Institution,
		UserType:    u.UserType,
		AccessLevel: u.AccessLevel,
		TokenID:     claims.ID,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// ParseHeader splits "Bearer <jwt>".
func ParseHeader(header string) (string, error) {
	tokens := strings.Split(strings.TrimSpace(header), " ")
	if len(tokens) != 2 || AuthType(tokens[0]) != AuthTypeBearer || tokens[1] == "" {
		return "", code.LoginFormatErr
	}
	return tokens[1], nil
}

func abort(ctx *gin.Context, status int, err error) {
	c, msg := code.Parse(err)
	ctx.JSON(status, &common.Resp{
		Code:  c,
		Error: &common.Error{Msg: msg},
	})
	ctx.Abort()
}

func AuthWeb() gin.HandlerFunc {
	return Auth(NewAuthenticator())
}

func Auth(a *Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var sessionErr error
		if tokenStr := sessionToken(ctx); tokenStr != "" {
			userInfo, err := a.Verify(ctx, tokenStr)
			if err == nil {
				ctx.Set(USERKEY, userInfo)
				ctx.Next()
				return
			}
			logger.Warnf(ctx, "auth verify session token fail path: %s, err: %+v", ctx.FullPath(), err)
			sessionErr = err
		}

		// 会话令牌失效后仍可用请求自带的 Bearer 令牌
		cookie, _ := ctx.Cookie(AccessTokenKey)
		queryToken := ctx.Query(AccessTokenKey)
		authHeader := utils.Or(cookie, queryToken, ctx.GetHeader("Authorization"))
		if authHeader == "" {
			if sessionErr != nil {
				abort(ctx, http.StatusUnauthorized, sessionErr)
				return
			}
			abort(ctx, http.StatusUnauthorized, code.UnLogin)
			return
		}
		tokenStr, err := ParseHeader(authHeader)
		if err != nil {
			abort(ctx, http.StatusUnauthorized, err)
			return
		}

		userInfo, err := a.Verify(ctx, tokenStr)
		if err != nil {
			logger.Warnf(ctx, "auth verify token fail path: %s, err: %+v", ctx.FullPath(), err)
			abort(ctx, http.StatusUnauthorized, err)
			return
		}
		ctx.Set(USERKEY, userInfo)
		ctx.Next()
	}
}

// RequireLevel 必须挂在 AuthWeb 之后
func RequireLevel(level common.AccessLevel) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !GetCurrentUser(ctx).HasAccess(level) {
			abort(ctx, http.StatusForbidden, code.NoPermission)
			return
		}
		ctx.Next()
	}
}

func GetCurrentUser(ctx context.Context) *UserInfo {
	if ctx == nil {
		return nil
	}
	ud, _ := ctx.Value(USERKEY).(*UserInfo)
	return ud
}

// WithUser 用于 websocket 会话和测试中传递当前用户
func WithUser(ctx context.Context, u *UserInfo) context.Context {
	return context.WithValue(ctx, USERKEY, u) //nolint:staticcheck
}
