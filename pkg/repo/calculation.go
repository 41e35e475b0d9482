package repo

import (
	"context"

	"github.com/scienceol/labmate/pkg/repo/model"
)

type CalculationQuery struct {
	UserID int64
	Kind   *model.CalcKind
	Limit  int
}

type CalculationRepo interface {
	IDOrUUIDTranslate

	CreateCalculation(ctx context.Context, data *model.Calculation) error
	// ListCalculations 按创建时间倒序，Limit 为 0 时返回全部
	ListCalculations(ctx context.Context, q CalculationQuery) ([]*model.Calculation, error)
	CountCalculations(ctx context.Context, userID int64) (int64, error)
}
