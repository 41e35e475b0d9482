package repo

import (
	"context"

	"github.com/scienceol/labmate/pkg/repo/model"
)

type UserRepo interface {
	IDOrUUIDTranslate

	// GetLatestByName 返回同名最新用户，不存在时返回 nil, nil
	GetLatestByName(ctx context.Context, name string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	// SaveUser 新建或覆盖角色信息
	SaveUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context, offset, limit int) ([]*model.User, int64, error)
}
