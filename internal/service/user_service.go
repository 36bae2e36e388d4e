package service

import (
	"context"
	"fmt"

	"halwaipro/internal/domain"
)

// UserService 管理端用户维护（只挂在 admin 服务上）
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

type UserPage struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

func (s *UserService) List(ctx context.Context, q domain.UserQuery) (*UserPage, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	items, total, err := s.users.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if items == nil {
		items = []domain.User{}
	}
	return &UserPage{Total: total, Items: items}, nil
}

func (s *UserService) ChangeRole(ctx context.Context, id, role string) (*domain.User, error) {
	r, ok := domain.ParseRole(role)
	if !ok || role == "" {
		return nil, domain.Validation("Invalid role")
	}
	u, err := s.users.UpdateRole(ctx, id, r)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	if u == nil {
		return nil, domain.NotFound(domain.MsgUserNotFound)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	ok, err := s.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		return domain.NotFound(domain.MsgUserNotFound)
	}
	return nil
}
