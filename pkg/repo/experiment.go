package repo

import (
	"context"

	"github.com/scienceol/labmate/pkg/common/uuid"
	"github.com/scienceol/labmate/pkg/repo/model"
)

type ExperimentRepo interface {
	IDOrUUIDTranslate

	CreateExperiment(ctx context.Context, data *model.Experiment) error
	ListExperiments(ctx context.Context, userID int64, limit int) ([]*model.Experiment, error)
	// GetExperiment 仅返回属于 userID 的实验，否则 code.RecordNotFound
	GetExperiment(ctx context.Context, userID int64, id uuid.UUID) (*model.Experiment, error)
	LatestExperiment(ctx context.Context, userID int64) (*model.Experiment, error)
	DeleteExperiment(ctx context.Context, userID int64, id uuid.UUID) error
}
