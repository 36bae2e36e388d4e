package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"halwaipro/internal/domain"
	"halwaipro/pkg/utils"
)

// bcrypt 上限
const maxPasswordBytes = 72

var emailCheck = validator.New()

func validEmail(email string) bool { return emailCheck.Var(email, "email") == nil }

// 邮箱不存在时也比对一次，两种失败耗时一致
var (
	dummyOnce sync.Once
	dummyHash string
)

func dummyPasswordHash() string {
	dummyOnce.Do(func() {
		dummyHash, _ = utils.HashPassword("halwaipro-dummy-password")
	})
	return dummyHash
}

// TokenIssuer 由 auth.JWTer 实现
type TokenIssuer interface {
	Issue(uid string) (string, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // 可选，缺省 staff
}

// AuthResult 登录/注册返回；User 序列化时不含密码
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	check  func(password, hash string) bool
}

func NewAuthService(users domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, check: utils.CheckPassword}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Validation(domain.MsgMissingFields)
	}
	if n := utf8.RuneCountInString(name); n < 3 || n > 30 {
		return nil, domain.Validation("Name must be between 3 and 30 characters long")
	}
	if !validEmail(email) {
		return nil, domain.Validation("Please enter a valid email address")
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.Validation("Password must be at most 72 bytes long")
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, domain.Validation("Invalid role")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.Conflict(domain.MsgUserExists)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册：唯一索引兜底
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict(domain.MsgUserExists)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.result(u)
}

// Login 邮箱不存在与密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Validation("Please provide email and password")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		s.check(password, dummyPasswordHash())
		return nil, domain.Unauthorized(domain.MsgInvalidCredentials)
	}
	if !s.check(password, u.PasswordHash) {
		return nil, domain.Unauthorized(domain.MsgInvalidCredentials)
	}
	return s.result(u)
}

func (s *AuthService) GenerateToken(userID string) (string, error) {
	return s.tokens.Issue(userID)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.NotFound(domain.MsgUserNotFound)
	}
	return u, nil
}

func (s *AuthService) result(u *domain.User) (*AuthResult, error) {
	tok, err := s.GenerateToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Token: tok}, nil
}
