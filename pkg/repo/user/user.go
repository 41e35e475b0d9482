package user

import (
	"context"
	"errors"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/model"
	"gorm.io/gorm"
)

type userImpl struct {
	repo.IDOrUUIDTranslate
}

func NewUserRepo() repo.UserRepo {
	return &userImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func (u *userImpl) GetLatestByName(ctx context.Context, name string) (*model.User, error) {
	data := &model.User{}
	err := u.DBWithContext(ctx).
		Where("name = ?", name).
		Order("id desc").
		Take(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Errorf(ctx, "GetLatestByName err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (u *userImpl) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	data := &model.User{}
	err := u.DBWithContext(ctx).Where("id = ?", id).Take(data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.RecordNotFound
	}
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return data, nil
}

func (u *userImpl) SaveUser(ctx context.Context, user *model.User) error {
	if user.ID == 0 {
		return u.CreateData(ctx, user)
	}
	return u.UpdateData(ctx, user, map[string]any{"id": user.ID},
		"role", "institution", "user_type", "access_level", "updated_at")
}

func (u *userImpl) ListUsers(ctx context.Context, offset, limit int) ([]*model.User, int64, error) {
	db := u.DBWithContext(ctx).Model(&model.User{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	list := make([]*model.User, 0, limit)
	if err := db.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}
