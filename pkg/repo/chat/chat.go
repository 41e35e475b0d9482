package chat

import (
	"context"

	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/repo"
	"github.com/scienceol/labmate/pkg/repo/model"
)

type chatImpl struct {
	repo.IDOrUUIDTranslate
}

func NewChatRepo() repo.ChatRepo {
	return &chatImpl{IDOrUUIDTranslate: repo.NewBaseDB()}
}

func (c *chatImpl) CreateMessages(ctx context.Context, msgs ...*model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return c.ExecTx(ctx, func(txCtx context.Context) error {
		for _, m := range msgs {
			if err := c.CreateData(txCtx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *chatImpl) ListMessages(ctx context.Context, userID int64, offset, limit int) ([]*model.ChatMessage, int64, error) {
	db := c.DBWithContext(ctx).Model(&model.ChatMessage{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	list := make([]*model.ChatMessage, 0, limit)
	if err := db.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (c *chatImpl) DeleteMessages(ctx context.Context, userID int64) (int64, error) {
	res := c.DBWithContext(ctx).Where("user_id = ?", userID).Delete(&model.ChatMessage{})
	if res.Error != nil {
		return 0, code.DeleteDataErr.WithErr(res.Error)
	}
	return res.RowsAffected, nil
}
