package db

import (
	"context"
	"fmt"
	"time"

	"github.com/scienceol/labmate/pkg/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type LogConf struct {
	Level         string
	SlowThreshold time.Duration
}

type Config struct {
	Driver string
	Host   string
	Port   int
	User   string
	PW     string
	DBName string
	// Path is the sqlite file, "file::memory:" style DSNs are accepted.
	Path    string
	LogConf LogConf
}

var store *Datastore

func Open(conf *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch conf.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(conf.Path)
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			conf.Host, conf.Port, conf.User, conf.PW, conf.DBName)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", conf.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   newGormLogger(conf.LogConf),
		DisableForeignKeyConstraintWhenMigrating: conf.Driver == DriverSQLite,
	})
	if err != nil {
		return nil, err
	}

	if err := gdb.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	if conf.Driver != DriverSQLite {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return gdb, nil
}

func InitDB(ctx context.Context, conf *Config) {
	gdb, err := Open(conf)
	if err != nil {
		logger.Fatalf(ctx, "init %s database fail err: %+v", conf.Driver, err)
	}
	store = &Datastore{db: gdb}
	logger.Infof(ctx, "%s database connected", conf.Driver)
}

func CloseDB(ctx context.Context) {
	if store == nil {
		return
	}
	sqlDB, err := store.db.DB()
	if err != nil {
		logger.Errorf(ctx, "get sql db err: %+v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Errorf(ctx, "close database err: %+v", err)
	}
	store = nil
}

func DB() *Datastore {
	return store
}
