package redis

import (
	"context"
	"fmt"
	"time"

	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

var redisClient *r.Client

// InitRedis connects the shared client. When the server is unreachable the
// client stays nil and callers fall back to their in-process paths.
func InitRedis(ctx context.Context, conf *Redis) {
	client, err := initRedis(ctx, conf)
	if err != nil {
		logger.Errorf(ctx, "init redis fail, continue without redis err: %+v", err)
		return
	}
	redisClient = client
}

func initRedis(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:         fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	client.AddHook(&logHook{})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// SetClient installs an already built client, tests point it at miniredis.
func SetClient(client *r.Client) {
	redisClient = client
}

// GetClient 获取Redis客户端实例
func GetClient() *r.Client {
	return redisClient
}
