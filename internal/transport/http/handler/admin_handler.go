package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"halwaipro/internal/domain"
	"halwaipro/internal/service"
	httpez "halwaipro/internal/transport/http/ez"
	mdw "halwaipro/internal/transport/http/middleware"
	resp "halwaipro/internal/transport/http/response"
)

// AdminHandler 管理端用户维护（/admin/v1，分组已要求 admin）
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type listUsersQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按 email/name 模糊搜
}

type roleIn struct {
	Role string `json:"role" binding:"required,role"`
}

func (h *AdminHandler) MountAdmin(e httpez.EZ) {
	// --- GET /admin/v1/users  用户列表 ---
	httpez.RegisterAction(e, httpez.Action[listUsersQ, *service.UserPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listUsersQ) (*service.UserPage, error) {
			return h.users.List(c.Request.Context(), domain.UserQuery{Offset: in.Offset, Limit: in.Limit, Q: in.Q})
		},
	})

	// --- PUT /admin/v1/users/:id/role  改角色 ---
	httpez.RegisterAction(e, httpez.Action[roleIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id/role",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *roleIn) (*domain.User, error) {
			return h.users.ChangeRole(c.Request.Context(), c.Param("id"), in.Role)
		},
	})

	// --- DELETE /admin/v1/users/:id  删除用户 ---
	httpez.RegisterAction(e, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id := c.Param("id")
			if me, ok := mdw.IdentityFrom(c); ok && me.ID == id {
				return resp.Message{}, domain.Validation("Cannot delete your own account")
			}
			if err := h.users.Delete(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "User deleted successfully"}, nil
		},
	})
}
