package experiment

import (
	"context"

	"github.com/scienceol/labmate/pkg/common/uuid"
)

type Service interface {
	Create(ctx context.Context, req *CreateReq) (*Resp, error)
	List(ctx context.Context) ([]*Resp, error)
	Get(ctx context.Context, id uuid.UUID) (*Resp, error)
	// Latest 没有实验时返回 nil, nil
	Latest(ctx context.Context) (*Resp, error)
	Delete(ctx context.Context, id uuid.UUID) (*DeleteResp, error)
}
