package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"halwaipro/internal/domain"
	"halwaipro/internal/service"
	httpez "halwaipro/internal/transport/http/ez"
	mdw "halwaipro/internal/transport/http/middleware"
)

// AuthHandler /auth/register、/auth/login、/auth/me
type AuthHandler struct {
	svc      *service.AuthService
	throttle gin.HandlerFunc // 登录限流，可为 nil
}

func NewAuthHandler(svc *service.AuthService, throttle gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{svc: svc, throttle: throttle}
}

func (h *AuthHandler) Priority() int { return 10 }

type registerIn struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"     binding:"omitempty,role"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) MountAPI(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[registerIn, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (*service.AuthResult, error) {
			return h.svc.Register(c.Request.Context(), service.RegisterInput{
				Name:     in.Name,
				Email:    in.Email,
				Password: in.Password,
				Role:     in.Role,
			})
		},
	})

	var pre []gin.HandlerFunc
	if h.throttle != nil {
		pre = append(pre, h.throttle)
	}
	httpez.RegisterAction(e, httpez.Action[loginIn, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Pre:    pre,
		Handler: func(c *gin.Context, in *loginIn) (*service.AuthResult, error) {
			return h.svc.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			id, _ := mdw.IdentityFrom(c)
			return h.svc.Me(c.Request.Context(), id.ID)
		},
	})
}
