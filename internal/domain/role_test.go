package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleOf(t *testing.T) {
	tests := []struct {
		name      string
		user      *User
		wantRole  Role
		wantCode  string
		wantAdmin bool
	}{
		{"superuser is admin", &User{IsSuperuser: true, IsActive: true}, RoleAdmin, "admin", true},
		{"superuser and staff is admin", &User{IsSuperuser: true, IsStaff: true, IsActive: true}, RoleAdmin, "admin", true},
		{"staff is hr", &User{IsStaff: true, IsActive: true}, RoleHR, "hr", true},
		{"plain user is employee", &User{IsActive: true}, RoleEmployee, "employee", false},
		{"nil user is employee", nil, RoleEmployee, "employee", false},
		{"inactive staff cannot manage", &User{IsStaff: true}, RoleHR, "hr", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRole, RoleOf(tt.user))
			assert.Equal(t, tt.wantCode, RoleOf(tt.user).Code())
			assert.Equal(t, tt.wantAdmin, IsAdminOrHR(tt.user))
		})
	}
}

func TestEventUpdate_Apply(t *testing.T) {
	loc := "Hall A"
	e := NewEvent("Gala", "Annual gala", time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC), &loc, nil)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), e.Date)

	title := "Winter Gala"
	newDate := time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)
	EventUpdate{Title: &title, Date: &newDate, SetLocation: true}.Apply(e)

	assert.Equal(t, "Winter Gala", e.Title)
	assert.Equal(t, "Annual gala", e.Description)
	assert.Equal(t, newDate, e.Date)
	assert.Nil(t, e.Location)
	assert.Nil(t, e.Image)
}

func TestPaginationParams(t *testing.T) {
	p := PaginationParams{Page: 3, PageSize: 10}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
	assert.NoError(t, p.CheckPage(21))
	assert.ErrorIs(t, p.CheckPage(20), ErrInvalidPage)

	first := PaginationParams{Page: 1, PageSize: 10}
	assert.NoError(t, first.CheckPage(0))
	assert.ErrorIs(t, PaginationParams{Page: 0, PageSize: 10}.CheckPage(5), ErrInvalidPage)
}
