package application

import (
	"strings"
	"time"

	"github.com/adminsuite/user-service/internal/domain/entity"
)

// UserResponse is the wire shape for a single user. Password hash and raw
// metadata never leave the server.
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
}

// UserListItem is the minimal shape used in list views.
type UserListItem struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// UserListPage is the paginated list envelope.
type UserListPage struct {
	Items      []UserListItem `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

func ToUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		AvatarURL: u.AvatarURL,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.UTC().Format(time.RFC3339)
		resp.LastLoginAt = &s
	}
	return resp
}

func ToUserListItem(u *entity.User) UserListItem {
	return UserListItem{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToUserListItems(users []*entity.User) []UserListItem {
	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserListItem(u))
	}
	return items
}

// FormatUserName title-cases each word of a name.
func FormatUserName(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// FormatEmail normalizes an email for storage and comparison.
func FormatEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FormatUserDisplay renders "Full Name (email)" for logs and admin views.
func FormatUserDisplay(u *entity.User) string {
	return u.FullName + " (" + u.Email + ")"
}
