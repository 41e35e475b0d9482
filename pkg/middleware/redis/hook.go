package redis

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

const slowCmd = 100 * time.Millisecond

// logHook reports failed and slow commands.
type logHook struct{}

func (h *logHook) DialHook(next r.DialHook) r.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			logger.Warnf(ctx, "redis dial %s err: %v", addr, err)
		}
		return conn, err
	}
}

func (h *logHook) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)
		if err != nil && !errors.Is(err, r.Nil) {
			logger.Errorf(ctx, "redis cmd %s err: %v", rediscmd.CmdString(cmd), err)
		} else if elapsed > slowCmd {
			logger.Warnf(ctx, "redis slow cmd %v | %s", elapsed, rediscmd.CmdString(cmd))
		}
		return err
	}
}

func (h *logHook) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, r.Nil) {
			summary, _ := rediscmd.CmdsString(cmds)
			logger.Errorf(ctx, "redis pipeline %s err: %v", summary, err)
		} else if elapsed := time.Since(start); elapsed > slowCmd {
			summary, _ := rediscmd.CmdsString(cmds)
			logger.Warnf(ctx, "redis slow pipeline %v | %s", elapsed, summary)
		}
		return err
	}
}
