package migrate

import (
	"context"

	"github.com/scienceol/labmate/pkg/middleware/db"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/repo/model"
)

func Models() []any {
	return []any{
		&model.User{},
		&model.Calculation{},
		&model.Experiment{},
		&model.ActivityLog{},
		&model.ChatMessage{},
	}
}

func Table(ctx context.Context) error {
	d := db.DB().DBWithContext(ctx)
	for _, m := range Models() {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	logger.Infof(ctx, "migrate %d tables success", len(Models()))
	return nil
}
