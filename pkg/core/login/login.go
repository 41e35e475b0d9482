package login

import (
	"context"

	"github.com/scienceol/labmate/pkg/common"
	"github.com/scienceol/labmate/pkg/middleware/auth"
)

// Service is the role-selection login. There are no passwords, a user is
// identified by name and the role picked at login.
type Service interface {
	Login(ctx context.Context, req *LoginReq) (*Resp, error)
	Logout(ctx context.Context) (*LogoutResp, error)
	Me(ctx context.Context) (*auth.UserInfo, error)
	Roles(ctx context.Context) []common.RoleInfo
}
