package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"halwaipro/internal/domain"
)

func TestUserService_ListClampsLimit(t *testing.T) {
	m := new(MockUserRepository)
	m.On("List", mock.Anything, domain.UserQuery{Offset: 0, Limit: 20, Q: "a"}).
		Return([]domain.User{{ID: "u1"}}, int64(1), nil)
	svc := NewUserService(m)

	page, err := svc.List(context.Background(), domain.UserQuery{Offset: -5, Limit: 1000, Q: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Items, 1)
	m.AssertExpectations(t)
}

func TestUserService_ChangeRole(t *testing.T) {
	m := new(MockUserRepository)
	m.On("UpdateRole", mock.Anything, "u1", domain.RoleAdmin).Return(&domain.User{ID: "u1", Role: domain.RoleAdmin}, nil)
	m.On("UpdateRole", mock.Anything, "gone", domain.RoleStaff).Return(nil, nil)
	svc := NewUserService(m)

	u, err := svc.ChangeRole(context.Background(), "u1", "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = svc.ChangeRole(context.Background(), "gone", "staff")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = svc.ChangeRole(context.Background(), "u1", "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = svc.ChangeRole(context.Background(), "u1", "root")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestUserService_Delete(t *testing.T) {
	m := new(MockUserRepository)
	m.On("Delete", mock.Anything, "u1").Return(true, nil)
	m.On("Delete", mock.Anything, "gone").Return(false, nil)
	svc := NewUserService(m)

	assert.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(svc.Delete(context.Background(), "gone")))
}
