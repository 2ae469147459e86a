package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adminsuite/user-service/internal/domain/entity"
	"github.com/adminsuite/user-service/internal/domain/repository"
)

// ErrNotFound is returned by mutations targeting a missing row.
var ErrNotFound = errors.New("user not found")

const userColumns = `id, email, password_hash, full_name, role, status, avatar_url, phone, metadata, created_at, updated_at, last_login_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var metadata []byte
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.Status,
		&u.AvatarURL, &u.Phone, &metadata, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &u.Metadata); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// buildFilterWhere renders the WHERE clause for a filter. Returns "" and no
// args for an empty filter.
func buildFilterWhere(f repository.Filter) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(email ILIKE %s OR full_name ILIKE %s)", p, p))
	}
	if f.Role != "" {
		conds = append(conds, "role = "+arg(string(f.Role)))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(string(f.Status)))
	}
	if f.CreatedAfter != nil {
		conds = append(conds, "created_at >= "+arg(*f.CreatedAfter))
	}
	if f.CreatedBefore != nil {
		conds = append(conds, "created_at <= "+arg(*f.CreatedBefore))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// sortColumn maps API sort fields onto columns. Unknown fields fall back to
// created_at so callers cannot inject arbitrary SQL.
func sortColumn(sortBy string) string {
	switch sortBy {
	case repository.SortByEmail:
		return "email"
	case repository.SortByFullName:
		return "full_name"
	case repository.SortByUpdatedAt:
		return "updated_at"
	default:
		return "created_at"
	}
}

func normalizePage(p repository.Pagination) repository.Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	if p.SortOrder != repository.SortAsc {
		p.SortOrder = repository.SortDesc
	}
	return p
}

func (r *UserRepository) FindAll(ctx context.Context, filter repository.Filter, page repository.Pagination) ([]*entity.User, int, error) {
	page = normalizePage(page)
	where, args := buildFilterWhere(filter)

	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	order := " ORDER BY " + sortColumn(page.SortBy) + " " + strings.ToUpper(page.SortOrder)
	limit := fmt.Sprintf(" LIMIT %d OFFSET %d", page.PageSize, (page.Page-1)*page.PageSize)

	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users`+where+order+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]*entity.User, 0, page.PageSize)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *UserRepository) Create(ctx context.Context, data repository.CreateData) (*entity.User, error) {
	role := data.Role
	if role == "" {
		role = entity.DefaultRole
	}
	metadata, err := marshalMetadata(data.Metadata)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, role, status, avatar_url, phone, metadata)
		VALUES (lower($1), $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		data.Email, data.PasswordHash, data.FullName, string(role), string(entity.DefaultStatus),
		data.AvatarURL, data.Phone, metadata)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, id string, data repository.UpdateData) (*entity.User, error) {
	sets := []string{"updated_at = now()"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if data.Email != nil {
		sets = append(sets, "email = lower("+arg(*data.Email)+")")
	}
	if data.FullName != nil {
		sets = append(sets, "full_name = "+arg(*data.FullName))
	}
	if data.Role != nil {
		sets = append(sets, "role = "+arg(string(*data.Role)))
	}
	if data.Status != nil {
		sets = append(sets, "status = "+arg(string(*data.Status)))
	}
	if data.AvatarURL != nil {
		sets = append(sets, "avatar_url = "+arg(*data.AvatarURL))
	}
	if data.Phone != nil {
		sets = append(sets, "phone = "+arg(*data.Phone))
	}
	if data.Metadata != nil {
		metadata, err := marshalMetadata(data.Metadata)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "metadata = "+arg(metadata))
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + arg(id) + ` RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID != "" {
		err = r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1) AND id <> $2)`,
			email, excludeID).Scan(&exists)
	} else {
		err = r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
			email).Scan(&exists)
	}
	return exists, err
}

func (r *UserRepository) Count(ctx context.Context, filter repository.Filter) (int, error) {
	where, args := buildFilterWhere(filter)
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, id)
	return err
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

var _ repository.UserRepository = (*UserRepository)(nil)
