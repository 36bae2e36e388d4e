package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"halwaipro/internal/core/cache"
	resp "halwaipro/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, http.StatusTooManyRequests, "too many requests")
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitPerIP 每 IP 限速；闲置超过 10 分钟的桶会被回收
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*ipBucket)
	lastSweep := time.Now()
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > time.Minute {
			for k, b := range buckets {
				if now.Sub(b.seen) > 10*time.Minute {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &ipBucket{lim: rate.NewLimiter(rps, burst)}
			buckets[ip] = b
		}
		b.seen = now
		allowed := b.lim.Allow()
		mu.Unlock()

		if allowed {
			c.Next()
			return
		}
		resp.Abort(c, http.StatusTooManyRequests, "too many requests")
	}
}

// LoginThrottle 基于 redis 的固定窗口计数；redis 未启用或出错时放行
func LoginThrottle(cc *cache.Cache, max int64, window time.Duration, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cc.Enabled() || max <= 0 {
			c.Next()
			return
		}
		key := fmt.Sprintf("login:%s", c.ClientIP())
		n, err := cc.Hit(c.Request.Context(), key, window)
		if err != nil {
			l.Warn("login throttle unavailable", zap.Error(err))
			c.Next()
			return
		}
		if n > max {
			resp.Abort(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
			return
		}
		c.Next()
	}
}
