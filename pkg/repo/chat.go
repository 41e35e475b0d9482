package repo

import (
	"context"

	"github.com/scienceol/labmate/pkg/repo/model"
)

type ChatRepo interface {
	IDOrUUIDTranslate

	CreateMessages(ctx context.Context, msgs ...*model.ChatMessage) error
	ListMessages(ctx context.Context, userID int64, offset, limit int) ([]*model.ChatMessage, int64, error)
	DeleteMessages(ctx context.Context, userID int64) (int64, error)
}
