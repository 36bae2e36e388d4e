package domain

import "strings"

// Role 封闭的角色集合
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// ParseRole 空串返回默认角色 staff
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

func (r Role) Valid() bool { return r == RoleStaff || r == RoleAdmin }

// In 授权判断：r 是否属于 allowed
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// Identity 鉴权通过后挂在请求上下文里的身份
type Identity struct {
	ID   string
	Role Role
}
