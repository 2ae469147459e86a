package entity

import (
	"strings"
	"time"
)

// Role governs what a user is allowed to do. Ordering matters: RoleHierarchy
// lists roles from least to most privileged.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
)

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBanned   Status = "banned"
)

// Defaults applied when a create request leaves them unset.
const (
	DefaultRole   = RoleUser
	DefaultStatus = StatusActive
)

// RoleHierarchy from least to most privileged.
var RoleHierarchy = []Role{RoleUser, RoleEditor, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleEditor:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusBanned:
		return true
	}
	return false
}

// User is the aggregate root for the user domain.
// PasswordHash is a bcrypt hash and must never leave the server boundary.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	Status       Status
	AvatarURL    *string
	Phone        *string
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

func (u *User) IsActive() bool { return u.Status == StatusActive }
func (u *User) IsBanned() bool { return u.Status == StatusBanned }
func (u *User) IsAdmin() bool  { return u.Role == RoleAdmin }

// HasRoleOrHigher reports whether the user's role sits at or above required
// in the role hierarchy.
func (u *User) HasRoleOrHigher(required Role) bool {
	return roleIndex(u.Role) >= roleIndex(required)
}

func roleIndex(r Role) int {
	for i, h := range RoleHierarchy {
		if h == r {
			return i
		}
	}
	return -1
}

// DisplayName returns the full name, or the email local part when the name
// is blank.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.FullName) != "" {
		return u.FullName
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Initials returns up to two uppercase letters for avatar placeholders.
func (u *User) Initials() string {
	name := u.DisplayName()
	parts := strings.Fields(name)
	if len(parts) >= 2 {
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[1]))
	}
	if len(name) >= 2 {
		return strings.ToUpper(name[:2])
	}
	return strings.ToUpper(name)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// AccountAgeDays returns whole days since the account was created.
func (u *User) AccountAgeDays(now time.Time) int {
	return int(now.Sub(u.CreatedAt).Hours() / 24)
}

// IsNew reports whether the account is younger than seven days.
func (u *User) IsNew(now time.Time) bool {
	return u.AccountAgeDays(now) < 7
}

// HasRecentLogin reports whether the user logged in within the last 30 days.
func (u *User) HasRecentLogin(now time.Time) bool {
	if u.LastLoginAt == nil {
		return false
	}
	return int(now.Sub(*u.LastLoginAt).Hours()/24) < 30
}
