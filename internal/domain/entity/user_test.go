package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleAndStatusValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleUser, RoleEditor} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())

	for _, s := range []Status{StatusActive, StatusInactive, StatusBanned} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("frozen").Valid())
}

func TestHasRoleOrHigher(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	editor := &User{Role: RoleEditor}
	user := &User{Role: RoleUser}

	assert.True(t, admin.HasRoleOrHigher(RoleUser))
	assert.True(t, admin.HasRoleOrHigher(RoleAdmin))
	assert.True(t, editor.HasRoleOrHigher(RoleUser))
	assert.False(t, editor.HasRoleOrHigher(RoleAdmin))
	assert.False(t, user.HasRoleOrHigher(RoleEditor))

	// unknown roles never qualify
	assert.False(t, (&User{Role: "mystery"}).HasRoleOrHigher(RoleUser))
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, (&User{Status: StatusActive}).IsActive())
	assert.False(t, (&User{Status: StatusInactive}).IsActive())
	assert.True(t, (&User{Status: StatusBanned}).IsBanned())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}

func TestDisplayNameAndInitials(t *testing.T) {
	u := &User{FullName: "Ada Lovelace", Email: "ada@example.com"}
	assert.Equal(t, "Ada Lovelace", u.DisplayName())
	assert.Equal(t, "AL", u.Initials())

	// blank name falls back to the email local part
	u = &User{FullName: "  ", Email: "grace.hopper@example.com"}
	assert.Equal(t, "grace.hopper", u.DisplayName())
	assert.Equal(t, "GR", u.Initials())

	u = &User{FullName: "Cher", Email: "cher@example.com"}
	assert.Equal(t, "CH", u.Initials())
}

func TestAccountAge(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	u := &User{CreatedAt: now.AddDate(0, 0, -10)}
	assert.Equal(t, 10, u.AccountAgeDays(now))
	assert.False(t, u.IsNew(now))

	fresh := &User{CreatedAt: now.Add(-36 * time.Hour)}
	assert.Equal(t, 1, fresh.AccountAgeDays(now))
	assert.True(t, fresh.IsNew(now))
}

func TestHasRecentLogin(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, (&User{}).HasRecentLogin(now))

	recent := now.AddDate(0, 0, -5)
	assert.True(t, (&User{LastLoginAt: &recent}).HasRecentLogin(now))

	stale := now.AddDate(0, 0, -45)
	assert.False(t, (&User{LastLoginAt: &stale}).HasRecentLogin(now))
}
