package router

import (
	"github.com/gin-gonic/gin"

	httpez "halwaipro/internal/transport/http/ez"
	mdw "halwaipro/internal/transport/http/middleware"
)

func NewAPIEngine(d Deps) *gin.Engine {
	r := newEngine(d)

	// 健康检查 + 指标
	h := health(d.Checks, d.Log)
	r.GET("/health", h)
	r.GET("/metrics", mdw.MetricsHandler())

	// 前缀
	api := r.Group("/api")
	api.GET("/health", h)

	// 需要登录的动作按需挂 gate，公开接口不挂
	gate := mdw.Authenticate(d.Tokens, d.Users, d.Log)
	if d.Modules != nil {
		d.Modules.MountAllAPI(httpez.New(api, d.Log, gate))
	}
	return r
}
