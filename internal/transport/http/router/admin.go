package router

import (
	"github.com/gin-gonic/gin"

	httpez "halwaipro/internal/transport/http/ez"
	mdw "halwaipro/internal/transport/http/middleware"
)

func NewAdminEngine(d Deps) *gin.Engine {
	r := newEngine(d)

	// 健康检查
	r.GET("/health", health(d.Checks, d.Log))

	// 管理端 v1（统一要求 admin 角色）
	gate := mdw.Authenticate(d.Tokens, d.Users, d.Log)
	admin := r.Group("/admin/v1")
	admin.Use(gate, mdw.AdminOnly())

	if d.Modules != nil {
		d.Modules.MountAllAdmin(httpez.New(admin, d.Log, gate))
	}
	return r
}
