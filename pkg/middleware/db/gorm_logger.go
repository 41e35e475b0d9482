package db

import (
	"context"
	"errors"
	"time"

	"github.com/scienceol/labmate/pkg/middleware/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type gormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(conf LogConf) gormlogger.Interface {
	level := gormlogger.Warn
	switch conf.Level {
	case "debug":
		level = gormlogger.Info
	case "error":
		level = gormlogger.Error
	case "silent":
		level = gormlogger.Silent
	}
	slow := conf.SlowThreshold
	if slow == 0 {
		slow = 200 * time.Millisecond
	}
	return &gormLogger{level: level, slowThreshold: slow}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	n := *g
	n.level = level
	return &n
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		logger.Infof(ctx, msg, args...)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		logger.Warnf(ctx, msg, args...)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		logger.Errorf(ctx, msg, args...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		logger.Errorf(ctx, "[gorm] %v | %d rows | %s | err: %v", elapsed, rows, sql, err)
	case elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.Warnf(ctx, "[gorm] slow sql %v | %d rows | %s", elapsed, rows, sql)
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		logger.Debugf(ctx, "[gorm] %v | %d rows | %s", elapsed, rows, sql)
	}
}
