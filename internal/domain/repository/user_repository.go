package repository

import (
	"context"
	"time"

	"github.com/adminsuite/user-service/internal/domain/entity"
)

// Sortable fields accepted by FindAll. Anything else falls back to created_at.
const (
	SortByEmail     = "email"
	SortByFullName  = "fullName"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Filter narrows FindAll and Count results. Zero values mean "no constraint".
type Filter struct {
	Search        string // substring over email and full name
	Role          entity.Role
	Status        entity.Status
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// Pagination is 1-based. Zero values are replaced with defaults by the
// implementation (page 1, page size 10).
type Pagination struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CreateData is the write payload for Create. Role defaults to entity.DefaultRole
// when empty; status is always entity.DefaultStatus for new users.
type CreateData struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         entity.Role
	AvatarURL    *string
	Phone        *string
	Metadata     map[string]any
}

// UpdateData carries a partial update: nil fields are left untouched.
type UpdateData struct {
	Email     *string
	FullName  *string
	Role      *entity.Role
	Status    *entity.Status
	AvatarURL *string
	Phone     *string
	Metadata  map[string]any
}

// Empty reports whether the update would change nothing.
func (d UpdateData) Empty() bool {
	return d.Email == nil && d.FullName == nil && d.Role == nil &&
		d.Status == nil && d.AvatarURL == nil && d.Phone == nil && d.Metadata == nil
}

// UserRepository is the persistence contract for the user domain.
// Implementations own id assignment, timestamps and atomicity; not-found is
// reported as (nil, nil) from the finders and as an error from mutations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, filter Filter, page Pagination) ([]*entity.User, int, error)
	Create(ctx context.Context, data CreateData) (*entity.User, error)
	Update(ctx context.Context, id string, data UpdateData) (*entity.User, error)
	Delete(ctx context.Context, id string) error
	EmailExists(ctx context.Context, email string, excludeID string) (bool, error)
	Count(ctx context.Context, filter Filter) (int, error)

	// TouchLastLogin is used by the auth collaborator after a successful login.
	TouchLastLogin(ctx context.Context, id string) error
}
