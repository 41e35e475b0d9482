package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/middleware/db"
	"github.com/scienceol/labmate/pkg/middleware/redis"
)

const (
	stateOK        = "ok"
	stateUnhealthy = "unhealthy"
	stateDisabled  = "disabled"
	stateNotInit   = "not_initialized"

	probeTimeout = 2 * time.Second
)

// Probe reports the state of one dependency and whether it blocks readiness.
type Probe func(ctx context.Context) (state string, ready bool)

type check struct {
	name  string
	probe Probe
}

type Handle struct {
	service string
	driver  string
	started time.Time
	checks  []check
}

func NewHealthHandle() *Handle {
	conf := config.Global()
	h := &Handle{
		service: fmt.Sprintf("%s-%s", conf.Server.Platform, conf.Server.Service),
		driver:  string(conf.Database.Driver),
		started: time.Now(),
	}
	h.AddProbe("database", databaseProbe)
	h.AddProbe("redis", redisProbe)
	return h
}

// AddProbe appends a readiness check, checks run in insertion order.
func (h *Handle) AddProbe(name string, p Probe) {
	h.checks = append(h.checks, check{name: name, probe: p})
}

func databaseProbe(ctx context.Context) (string, bool) {
	ds := db.DB()
	if ds == nil {
		return stateNotInit, false
	}
	sqlDB, err := ds.DBIns().DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return stateUnhealthy, false
	}
	return stateOK, true
}

// redis 是可选依赖，未配置时只降级缓存与事件总线
func redisProbe(ctx context.Context) (string, bool) {
	rc := redis.GetClient()
	if rc == nil {
		return stateDisabled, true
	}
	if err := rc.Ping(ctx).Err(); err != nil {
		return stateUnhealthy, false
	}
	return stateOK, true
}

func (h *Handle) Health(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{
		"status":  stateOK,
		"service": h.service,
		"driver":  h.driver,
		"uptime":  time.Since(h.started).Truncate(time.Second).String(),
	})
}

func (h *Handle) Live(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": stateOK})
}

func (h *Handle) Ready(g *gin.Context) {
	checks := make(gin.H, len(h.checks))
	healthy := true
	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(g.Request.Context(), probeTimeout)
		state, ready := c.probe(ctx)
		cancel()
		checks[c.name] = state
		healthy = healthy && ready
	}

	status, msg := http.StatusOK, "ready"
	if !healthy {
		status, msg = http.StatusServiceUnavailable, "not_ready"
	}
	g.JSON(status, gin.H{
		"status": msg,
		"checks": checks,
	})
}
