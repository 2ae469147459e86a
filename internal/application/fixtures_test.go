package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adminsuite/user-service/internal/domain/entity"
	"github.com/adminsuite/user-service/internal/domain/repository"
	"github.com/adminsuite/user-service/pkg/cache"
	"github.com/adminsuite/user-service/pkg/helpers"
	"github.com/adminsuite/user-service/pkg/mailer"
)

var errFakeNotFound = errors.New("user not found")

// fakeRepo is an in-memory UserRepository. Emails compare case-insensitively
// like the real schema; ids are sequential from the repo's own counter.
type fakeRepo struct {
	mu    sync.Mutex
	seq   int
	now   time.Time
	users map[string]*entity.User

	failWith error // when set, every method returns this error

	createCalls      int
	emailExistsCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		now:   time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		users: map[string]*entity.User{},
	}
}

func (r *fakeRepo) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func clone(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	return clone(r.users[id]), nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindAll(_ context.Context, filter repository.Filter, page repository.Pagination) ([]*entity.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, 0, r.failWith
	}

	var all []*entity.User
	for _, u := range r.users {
		if r.matches(u, filter) {
			all = append(all, clone(u))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if page.SortOrder == repository.SortAsc {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start := (page.Page - 1) * page.PageSize
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *fakeRepo) matches(u *entity.User, f repository.Filter) bool {
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.Email), s) && !strings.Contains(strings.ToLower(u.FullName), s) {
			return false
		}
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.CreatedAfter != nil && u.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	if f.CreatedBefore != nil && u.CreatedAt.After(*f.CreatedBefore) {
		return false
	}
	return true
}

func (r *fakeRepo) Create(_ context.Context, data repository.CreateData) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.seq++
	role := data.Role
	if role == "" {
		role = entity.DefaultRole
	}
	now := r.tick()
	u := &entity.User{
		ID:           fmt.Sprintf("u-%d", r.seq),
		Email:        strings.ToLower(data.Email),
		PasswordHash: data.PasswordHash,
		FullName:     data.FullName,
		Role:         role,
		Status:       entity.DefaultStatus,
		AvatarURL:    data.AvatarURL,
		Phone:        data.Phone,
		Metadata:     data.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return clone(u), nil
}

func (r *fakeRepo) Update(_ context.Context, id string, data repository.UpdateData) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, errFakeNotFound
	}
	if data.Email != nil {
		u.Email = strings.ToLower(*data.Email)
	}
	if data.FullName != nil {
		u.FullName = *data.FullName
	}
	if data.Role != nil {
		u.Role = *data.Role
	}
	if data.Status != nil {
		u.Status = *data.Status
	}
	if data.AvatarURL != nil {
		u.AvatarURL = data.AvatarURL
	}
	if data.Phone != nil {
		u.Phone = data.Phone
	}
	if data.Metadata != nil {
		u.Metadata = data.Metadata
	}
	u.UpdatedAt = r.tick()
	return clone(u), nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.users[id]; !ok {
		return errFakeNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) EmailExists(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emailExistsCalls++
	if r.failWith != nil {
		return false, r.failWith
	}
	for id, u := range r.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Count(ctx context.Context, filter repository.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	n := 0
	for _, u := range r.users {
		if r.matches(u, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) TouchLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return errFakeNotFound
	}
	now := r.tick()
	u.LastLoginAt = &now
	return nil
}

var _ repository.UserRepository = (*fakeRepo)(nil)

// memStore is an in-memory cache.Store. TTLs are recorded but never expire
// within a test.
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	gets    int
	sets    int
	deletes int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *memStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	b, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (s *memStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = b
	s.ttls[key] = ttl
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.data, key)
	delete(s.ttls, key)
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

var _ cache.Store = (*memStore)(nil)

// fakePublisher records published email jobs.
type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return nil
}

func (p *fakePublisher) templates() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.jobs))
	for _, j := range p.jobs {
		out = append(out, j.Template)
	}
	return out
}

// fixture bundles a service with its fakes.
type fixture struct {
	repo  *fakeRepo
	store *memStore
	pub   *fakePublisher
	svc   *Service
	auth  *AuthService
}

func newFixture() *fixture {
	repo := newFakeRepo()
	store := newMemStore()
	pub := &fakePublisher{}
	svc := NewService(repo, NewUserCache(store, 0), nil)
	svc.Publisher = pub
	auth := NewAuthService(repo, helpers.NewJWTManager("acc", "ref", time.Hour, 24*time.Hour), nil, nil)
	return &fixture{repo: repo, store: store, pub: pub, svc: svc, auth: auth}
}

// seed inserts a user directly, bypassing the command path.
func (f *fixture) seed(email, fullName string, role entity.Role, status entity.Status) *entity.User {
	u, err := f.repo.Create(context.Background(), repository.CreateData{
		Email:        email,
		PasswordHash: mustHash("Password1"),
		FullName:     fullName,
		Role:         role,
	})
	if err != nil {
		panic(err)
	}
	if status != "" && status != entity.DefaultStatus {
		u, err = f.repo.Update(context.Background(), u.ID, repository.UpdateData{Status: &status})
		if err != nil {
			panic(err)
		}
	}
	return u
}

func mustHash(plain string) string {
	h, err := helpers.HashPassword(plain)
	if err != nil {
		panic(err)
	}
	return h
}

func validCreate(email string) CreateUserCommand {
	return CreateUserCommand{
		Email:    email,
		Password: "Password1",
		FullName: "Test User",
	}
}
