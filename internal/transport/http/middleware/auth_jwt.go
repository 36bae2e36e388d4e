package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"halwaipro/internal/core/auth"
	"halwaipro/internal/domain"
	resp "halwaipro/internal/transport/http/response"
)

const (
	KeyIdentity = "identity"
	KeyUserID   = "userId"
	KeyRole     = "role"
)

// TokenParser 由 auth.JWTer 实现
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// UserFinder 用 token 里的 uid 回查用户（拿最新角色，已删除用户拒绝）
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate 校验 Bearer token 并挂载身份
func Authenticate(tokens TokenParser, users UserFinder, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		raw := strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
		if !strings.HasPrefix(ah, "Bearer ") || raw == "" {
			resp.Abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		u, err := users.FindByID(c.Request.Context(), claims.UID)
		if err != nil {
			resp.Fail(c, l, err)
			return
		}
		if u == nil {
			resp.Abort(c, http.StatusUnauthorized, "Not authorized, user not found")
			return
		}
		id := domain.Identity{ID: u.ID, Role: u.Role}
		c.Set(KeyIdentity, id)
		c.Set(KeyUserID, id.ID)
		c.Set(KeyRole, string(id.Role))
		c.Next()
	}
}

// Authorize 必须挂在 Authenticate 之后
func Authorize(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "Not authorized")
			return
		}
		if !id.Role.In(roles...) {
			resp.Abort(c, http.StatusForbidden, "User role "+string(id.Role)+" is not authorized to access this route")
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc { return Authorize(domain.RoleAdmin) }

func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(KeyIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
