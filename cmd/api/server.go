package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/scienceol/labmate/docs" // swagger docs

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/core/notify"
	"github.com/scienceol/labmate/pkg/core/notify/events"
	"github.com/scienceol/labmate/pkg/core/notify/hub"
	labgrpc "github.com/scienceol/labmate/pkg/grpc"
	"github.com/scienceol/labmate/pkg/middleware/auth"
	"github.com/scienceol/labmate/pkg/middleware/db"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/middleware/redis"
	"github.com/scienceol/labmate/pkg/middleware/trace"
	migrate "github.com/scienceol/labmate/pkg/repo/migrate"
	"github.com/scienceol/labmate/pkg/utils"
	"github.com/scienceol/labmate/pkg/web"
	"github.com/spf13/cobra"
)

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         "Start the API server (HTTP + gRPC)",
		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         newRouter,
		PostRunE:     cleanWebResource,
	}
}

func NewMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Long:         "Run database migrations",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			initDB(cmd.Context())
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate.Table(cmd.Root().Context())
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.CloseDB(cmd.Context())
			return nil
		},
	}
}

func dbConfig() *db.Config {
	conf := config.Global()
	return &db.Config{
		Driver:  string(conf.Database.Driver),
		Host:    conf.Database.Host,
		Port:    conf.Database.Port,
		User:    conf.Database.User,
		PW:      conf.Database.Password,
		DBName:  conf.Database.Name,
		Path:    conf.Database.Path,
		LogConf: db.LogConf{Level: conf.Log.LogLevel},
	}
}

func initDB(ctx context.Context) {
	db.InitDB(ctx, dbConfig())
	// sqlite 多用于本地开发，启动时顺带建表
	if config.Global().Database.Driver == config.DriverSQLite {
		if err := migrate.Table(ctx); err != nil {
			logger.Fatalf(ctx, "migrate sqlite tables err: %+v", err)
		}
	}
}

func initWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	trace.InitTrace(cmd.Context(), &trace.InitConfig{
		ServiceName:     fmt.Sprintf("%s-%s", conf.Server.Service, conf.Server.Platform),
		Version:         conf.Trace.Version,
		TraceEndpoint:   conf.Trace.TraceEndpoint,
		MetricEndpoint:  conf.Trace.MetricEndpoint,
		TraceProject:    conf.Trace.TraceProject,
		TraceInstanceID: conf.Trace.TraceInstanceID,
		TraceAK:         conf.Trace.TraceAK,
		TraceSK:         conf.Trace.TraceSK,
	})
	initDB(cmd.Context())
	redis.InitRedis(cmd.Context(), &redis.Redis{
		Host: conf.Redis.Host, Port: conf.Redis.Port,
		Password: conf.Redis.Password, DB: conf.Redis.DB,
	})

	// 活动日志经消息中心广播，再由 hub 推给各 SSE 连接
	return events.NewEvents().Registry(cmd.Root().Context(), notify.ActivityLog, hub.Default().Handle)
}

func newRouter(cmd *cobra.Command, _ []string) error {
	router := gin.Default()
	closeRouter := web.NewRouter(cmd.Root().Context(), router)
	conf := config.Global()
	port := conf.Server.Port
	addr := ":" + strconv.Itoa(port)

	httpServer := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	fmt.Printf("API Server starting on http://0.0.0.0:%d\n", port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v\n", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	grpcPort := conf.Server.GrpcPort
	grpcServer, err := labgrpc.NewServer(cmd.Root().Context(), grpcPort, auth.NewAuthenticator())
	if err != nil {
		logger.Errorf(cmd.Context(), "start gRPC server err: %+v", err)
	} else {
		fmt.Printf("gRPC Server starting on port %d\n", grpcPort)
	}

	fmt.Printf("Server started. Press Ctrl+C to shutdown.\n")
	<-cmd.Context().Done()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("shut down server err: %+v", err)
	}
	closeRouter()
	return nil
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	_ = events.NewEvents().Close(cmd.Context())
	hub.Default().Close()
	redis.CloseRedis(cmd.Context())
	db.CloseDB(cmd.Context())
	trace.CloseTrace()
	return nil
}
