package application

import (
	"github.com/adminsuite/user-service/internal/domain/entity"
	"github.com/adminsuite/user-service/internal/domain/repository"
)

// CreateUserCommand is the write payload for user creation. Password
// composition is owned by the business rules, so the schema only bounds its
// size (see password rules in rules.go).
type CreateUserCommand struct {
	Email     string         `json:"email" validate:"required,email,max=255"`
	Password  string         `json:"password" validate:"required,max=128"`
	FullName  string         `json:"full_name" validate:"required,min=2,max=100"`
	Role      entity.Role    `json:"role" validate:"omitempty,oneof=admin user editor"`
	AvatarURL *string        `json:"avatar_url" validate:"omitempty,url"`
	Phone     *string        `json:"phone" validate:"omitempty,max=20"`
	Metadata  map[string]any `json:"metadata"`
}

type CreateUserResult struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// UpdateUserCommand carries a partial update; nil fields are left untouched.
// The target id is routed separately and excluded from schema validation.
type UpdateUserCommand struct {
	ID        string         `json:"-"`
	Email     *string        `json:"email" validate:"omitempty,email,max=255"`
	FullName  *string        `json:"full_name" validate:"omitempty,min=2,max=100"`
	Role      *entity.Role   `json:"role" validate:"omitempty,oneof=admin user editor"`
	Status    *entity.Status `json:"status" validate:"omitempty,oneof=active inactive banned"`
	AvatarURL *string        `json:"avatar_url" validate:"omitempty,url"`
	Phone     *string        `json:"phone" validate:"omitempty,max=20"`
	Metadata  map[string]any `json:"metadata"`
}

// data maps the command onto the repository's partial-update payload.
func (c UpdateUserCommand) data() repository.UpdateData {
	return repository.UpdateData{
		Email:     c.Email,
		FullName:  c.FullName,
		Role:      c.Role,
		Status:    c.Status,
		AvatarURL: c.AvatarURL,
		Phone:     c.Phone,
		Metadata:  c.Metadata,
	}
}

type UpdateUserResult struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// DeleteUserCommand identifies the target and the acting user.
type DeleteUserCommand struct {
	ID      string `json:"id"`
	ActorID string `json:"actor_id"`
}

type DeleteUserResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ListUsersQuery is the read-intent input for listing.
type ListUsersQuery struct {
	Filter     repository.Filter
	Pagination repository.Pagination
}
