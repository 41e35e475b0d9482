package report

import (
	"context"

	"github.com/scienceol/labmate/pkg/common/uuid"
)

// File is a rendered export, streamed back as an attachment.
type File struct {
	Name string
	Data []byte
}

type Service interface {
	Calculations(ctx context.Context) (*File, error)
	LabReport(ctx context.Context) (*File, error)
	CurrentExperiment(ctx context.Context) (*File, error)
	Experiment(ctx context.Context, id uuid.UUID) (*File, error)
	ActivityLogs(ctx context.Context) (*File, error)
}
