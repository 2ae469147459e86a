package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adminsuite/user-service/internal/domain/entity"
	repo "github.com/adminsuite/user-service/internal/domain/repository"
	"github.com/adminsuite/user-service/pkg/helpers"
	"github.com/adminsuite/user-service/pkg/mailer"
	"github.com/adminsuite/user-service/pkg/validation"
)

var ErrUserNotFound = errors.New("user not found")

// Publisher is the slice of the message broker the service needs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Service orchestrates the user command handlers: schema validation, business
// rules, repository calls and result mapping. Cache, Publisher, GCS and ES
// are optional collaborators; a nil value disables that side effect.
type Service struct {
	Repo         repo.UserRepository
	Cache        *UserCache
	Logger       *logrus.Logger
	Publisher    Publisher
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(r repo.UserRepository, cache *UserCache, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Cache: cache, Logger: logger}
}

// CreateUser validates the command, checks email uniqueness and password
// composition, hashes the password and persists the user.
func (s *Service) CreateUser(ctx context.Context, cmd CreateUserCommand) Result[CreateUserResult] {
	if err := validation.Struct(cmd); err != nil {
		return Fail[CreateUserResult](CodeValidationError, validation.First(err))
	}

	res, err := ValidateCreateUser(ctx, s.Repo, cmd)
	if err != nil {
		return failErr[CreateUserResult](CodeCreateFailed, err, "could not create user")
	}
	if !res.Valid {
		return Fail[CreateUserResult](res.Code, res.Message)
	}

	hash, err := helpers.HashPassword(cmd.Password)
	if err != nil {
		return failErr[CreateUserResult](CodeCreateFailed, err, "could not create user")
	}

	u, err := s.Repo.Create(ctx, repo.CreateData{
		Email:        FormatEmail(cmd.Email),
		PasswordHash: hash,
		FullName:     cmd.FullName,
		Role:         cmd.Role,
		AvatarURL:    cmd.AvatarURL,
		Phone:        cmd.Phone,
		Metadata:     cmd.Metadata,
	})
	if err != nil {
		s.logError("create user failed", err, logrus.Fields{"email": cmd.Email})
		return failErr[CreateUserResult](CodeCreateFailed, err, "could not create user")
	}

	s.cacheUser(ctx, u)
	s.publishEmail(ctx, u.Email, mailer.TemplateUserWelcome, map[string]any{
		"Email":    u.Email,
		"FullName": u.FullName,
	})
	s.indexUser(ctx, u)

	return Ok(CreateUserResult{ID: u.ID, Email: u.Email, FullName: u.FullName})
}

// UpdateUser applies a partial update. Only supplied fields change; the
// uniqueness check runs only when the email itself is being changed.
func (s *Service) UpdateUser(ctx context.Context, cmd UpdateUserCommand) Result[UpdateUserResult] {
	if err := validation.Struct(cmd); err != nil {
		return Fail[UpdateUserResult](CodeValidationError, validation.First(err))
	}

	res, err := ValidateUpdateUser(ctx, s.Repo, cmd)
	if err != nil {
		return failErr[UpdateUserResult](CodeUpdateFailed, err, "could not update user")
	}
	if !res.Valid {
		return Fail[UpdateUserResult](res.Code, res.Message)
	}

	// The pre-update record is needed to drop the stale email cache key.
	var prev *entity.User
	if s.Cache != nil {
		prev, _ = s.Repo.FindByID(ctx, cmd.ID)
	}

	u, err := s.Repo.Update(ctx, cmd.ID, cmd.data())
	if err != nil {
		s.logError("update user failed", err, logrus.Fields{"user_id": cmd.ID})
		return failErr[UpdateUserResult](CodeUpdateFailed, err, "could not update user")
	}

	if s.Cache != nil && prev != nil {
		_ = s.Cache.Invalidate(ctx, prev)
	}
	s.cacheUser(ctx, u)
	s.indexUser(ctx, u)

	return Ok(UpdateUserResult{ID: u.ID, Email: u.Email, FullName: u.FullName})
}

// DeleteUser enforces the self-deletion and admin-gating rules, then removes
// the user. Deletion is irreversible; a second call reports USER_NOT_FOUND.
func (s *Service) DeleteUser(ctx context.Context, cmd DeleteUserCommand) Result[DeleteUserResult] {
	target, res, err := ValidateDeleteUser(ctx, s.Repo, cmd)
	if err != nil {
		return failErr[DeleteUserResult](CodeDeleteFailed, err, "could not delete user")
	}
	if !res.Valid {
		return Fail[DeleteUserResult](res.Code, res.Message)
	}

	if err := s.Repo.Delete(ctx, cmd.ID); err != nil {
		s.logError("delete user failed", err, logrus.Fields{"user_id": cmd.ID})
		return failErr[DeleteUserResult](CodeDeleteFailed, err, "could not delete user")
	}

	if s.Cache != nil {
		_ = s.Cache.Invalidate(ctx, target)
	}
	s.publishEmail(ctx, target.Email, mailer.TemplateAccountDeleted, map[string]any{
		"Email": target.Email,
	})
	s.deindexUser(ctx, cmd.ID)

	return Ok(DeleteUserResult{ID: cmd.ID, Deleted: true})
}

// ListUsers returns one page of the user list, read through the list cache.
func (s *Service) ListUsers(ctx context.Context, q ListUsersQuery) Result[UserListPage] {
	page := normalizeQueryPage(q.Pagination)

	key := ListKey(q.Filter, page)
	if s.Cache != nil {
		if cached, err := s.Cache.GetList(ctx, key); err == nil && cached != nil {
			return Ok(*cached)
		}
	}

	items, total, err := s.Repo.FindAll(ctx, q.Filter, page)
	if err != nil {
		s.logError("list users failed", err, nil)
		return failErr[UserListPage](CodeListFailed, err, "could not list users")
	}

	listPage := UserListPage{
		Items:      ToUserListItems(items),
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: (total + page.PageSize - 1) / page.PageSize,
	}
	if s.Cache != nil {
		_ = s.Cache.SetList(ctx, key, listPage)
	}
	return Ok(listPage)
}

// GetUser fetches a single user, read through the cache.
func (s *Service) GetUser(ctx context.Context, id string) Result[UserResponse] {
	if s.Cache != nil {
		if u, err := s.Cache.GetByID(ctx, id); err == nil && u != nil {
			return Ok(ToUserResponse(u))
		}
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return failErr[UserResponse](CodeGetFailed, err, "could not fetch user")
	}
	if u == nil {
		return Fail[UserResponse](CodeUserNotFound, "user not found")
	}
	s.cacheUser(ctx, u)
	return Ok(ToUserResponse(u))
}

// GetUserByEmail fetches a single user by email, read through the cache.
func (s *Service) GetUserByEmail(ctx context.Context, email string) Result[UserResponse] {
	if s.Cache != nil {
		if u, err := s.Cache.GetByEmail(ctx, email); err == nil && u != nil {
			return Ok(ToUserResponse(u))
		}
	}
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return failErr[UserResponse](CodeGetFailed, err, "could not fetch user")
	}
	if u == nil {
		return Fail[UserResponse](CodeUserNotFound, "user not found")
	}
	s.cacheUser(ctx, u)
	return Ok(ToUserResponse(u))
}

// UploadAvatar stores the image in GCS and points the user's avatar at its
// public URL.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	updated, err := s.Repo.Update(ctx, userID, repo.UpdateData{AvatarURL: &url})
	if err != nil {
		return "", err
	}
	if s.Cache != nil {
		_ = s.Cache.Invalidate(ctx, u)
	}
	s.cacheUser(ctx, updated)
	s.indexUser(ctx, updated)
	return url, nil
}

// SearchUsers performs a multi_match search on email and full name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "full_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func normalizeQueryPage(p repo.Pagination) repo.Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	if p.SortOrder != repo.SortAsc {
		p.SortOrder = repo.SortDesc
	}
	return p
}

func (s *Service) cacheUser(ctx context.Context, u *entity.User) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.SetByID(ctx, u); err != nil {
		s.logError("cache set by id failed", err, logrus.Fields{"user_id": u.ID})
	}
	if err := s.Cache.SetByEmail(ctx, u); err != nil {
		s.logError("cache set by email failed", err, logrus.Fields{"user_id": u.ID})
	}
}

func (s *Service) publishEmail(ctx context.Context, to, template string, data map[string]any) {
	if s.Publisher == nil {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.logError("publish email job failed", err, logrus.Fields{"to": to, "template": template})
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"role":       string(u.Role),
		"status":     string(u.Status),
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.logError("es index failed", err, logrus.Fields{"user_id": u.ID})
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

func (s *Service) deindexUser(ctx context.Context, id string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.logError("es delete failed", err, logrus.Fields{"user_id": id})
		return
	}
	_ = res.Body.Close()
}

func (s *Service) logError(msg string, err error, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	s.Logger.WithError(err).WithFields(fields).Error(msg)
}
