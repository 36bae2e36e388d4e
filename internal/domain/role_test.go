package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"", RoleStaff, true},
		{"staff", RoleStaff, true},
		{" Admin ", RoleAdmin, true},
		{"root", "", false},
	}
	for _, c := range cases {
		got, ok := ParseRole(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleAdmin.In(RoleStaff, RoleAdmin))
	assert.True(t, RoleStaff.In(RoleStaff, RoleAdmin))
	assert.False(t, RoleStaff.In(RoleAdmin))
	assert.False(t, RoleAdmin.In())
}
