package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"halwaipro/internal/core/config"
	"halwaipro/internal/core/server"
	mdw "halwaipro/internal/transport/http/middleware"
	resp "halwaipro/internal/transport/http/response"
)

// Pinger 健康检查依赖（数据库 / redis），可为空
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps 两个引擎共用的依赖
type Deps struct {
	Log     *zap.Logger
	Limits  config.Limits
	Tokens  mdw.TokenParser
	Users   mdw.UserFinder
	Modules *Registry
	Checks  map[string]Pinger // name -> pinger
}

const healthMessage = "Backend is running"

// newEngine 公共中间件链
func newEngine(d Deps) *gin.Engine {
	lim := d.Limits
	r := server.NewRouter(d.Log)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
	)
	if lim.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst))
	}
	r.Use(
		mdw.ConcurrencyLimit(lim.MaxConcurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second),
		mdw.SimpleRecovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "Route not found") })
	return r
}

// health 任一依赖 Ping 失败返回 503
func health(checks map[string]Pinger, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for name, p := range checks {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				l.Warn("health check failed", zap.String("dep", name), zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Health{Success: false, Message: name + " unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, resp.Health{Success: true, Message: healthMessage})
	}
}
