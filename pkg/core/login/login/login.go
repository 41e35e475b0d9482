package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/core/activity"
	aImpl "github.com/scienceol/labmate/pkg/core/activity/activity"
	"github.com/scienceol/labmate/pkg/core/login"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/model"
	"github.com/scienceol/labmate/pkg/repo/token"
	"github.com/scienceol/labmate/pkg/repo/user"
	"github.com/scienceol/labmate/pkg/utils"
)

type roleLogin struct {
	userStore  repo.UserRepo
	tokenStore repo.TokenRepo
	recorder   activity.Recorder
	secret     string
	ttl        time.Duration
}

func New() login.Service {
	conf := config.Global().Auth
	return NewWith(user.NewUserRepo(), token.NewTokenRepo(), aImpl.New(),
		conf.JWTSecret, time.Duration(conf.TokenExpireHours)*time.Hour)
}

func NewWith(users repo.UserRepo, tokens repo.TokenRepo, recorder activity.Recorder,
	secret string, ttl time.Duration,
) login.Service {
	return &roleLogin{
		userStore:  users,
		tokenStore: tokens,
		recorder:   recorder,
		secret:     secret,
		ttl:        ttl,
	}
}

// Login 同名用户复用最新一条记录并覆盖角色信息
func (l *roleLogin) Login(ctx context.Context, req *login.LoginReq) (*login.Resp, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, code.ParamErr.WithMsg("Name is required")
	}
	if strings.TrimSpace(string(req.Role)) == "" {
		return nil, code.ParamErr.WithMsg("Role is required")
	}

	u, err := l.userStore.GetLatestByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &model.User{Name: name}
	}
	info := common.ResolveRole(req.Role)
	u.Role = req.Role
	u.Institution = strings.TrimSpace(req.Institution)
	u.UserType = info.UserType
	u.AccessLevel = info.AccessLevel
	if err := l.userStore.SaveUser(ctx, u); err != nil {
		return nil, err
	}

	jti := uuid.NewV4().String()
	tokenStr, err := utils.SignJWT(&utils.Claims{
		UserID:           u.ID,
		UserUUID:         u.UUID.String(),
		Name:             u.Name,
		Role:             string(u.Role),
		AccessLevel:      int(u.AccessLevel),
		RegisteredClaims: jwt.RegisteredClaims{ID: jti, Subject: u.UUID.String()},
	}, l.secret, l.ttl)
	if err != nil {
		logger.Errorf(ctx, "sign token fail user: %d, err: %+v", u.ID, err)
		return nil, code.LoginSessionErr.WithErr(err)
	}
	if err := l.tokenStore.Register(ctx, jti, u.ID, l.ttl); err != nil {
		return nil, err
	}

	l.recorder.Log(ctx, u.ID, model.ActionAuthentication,
		fmt.Sprintf("User %s (%s) logged in as %s", u.Name, u.Role, u.UserType))

	return &login.Resp{
		Token:     tokenStr,
		TokenType: string(auth.AuthTypeBearer),
		ExpiresIn: int64(l.ttl.Seconds()),
		User: &auth.UserInfo{
			ID:          u.ID,
			UUID:        u.UUID,
			Name:        u.Name,
			Role:        u.Role,
			Institution: u.Institution,
			UserType:    u.UserType,
			AccessLevel: u.AccessLevel,
			TokenID:     jti,
			ExpiresAt:   time.Now().Add(l.ttl),
		},
	}, nil
}

func (l *roleLogin) Logout(ctx context.Context) (*login.LogoutResp, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	l.recorder.Log(ctx, userInfo.ID, model.ActionAuthentication,
		fmt.Sprintf("User %s logged out", userInfo.Name))

	if userInfo.TokenID != "" {
		if err := l.tokenStore.Revoke(ctx, userInfo.TokenID); err != nil {
			return nil, err
		}
	}
	return &login.LogoutResp{Message: "You have been logged out successfully."}, nil
}

func (l *roleLogin) Me(ctx context.Context) (*auth.UserInfo, error) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		return nil, code.UnLogin
	}
	return userInfo, nil
}

func (l *roleLogin) Roles(_ context.Context) []common.RoleInfo {
	return common.Roles()
}
