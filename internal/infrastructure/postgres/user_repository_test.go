package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adminsuite/user-service/internal/domain/repository"
)

func TestBuildFilterWhere(t *testing.T) {
	t.Run("empty filter", func(t *testing.T) {
		where, args := buildFilterWhere(repository.Filter{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("search matches email and name with one placeholder", func(t *testing.T) {
		where, args := buildFilterWhere(repository.Filter{Search: "ada"})
		assert.Equal(t, " WHERE (email ILIKE $1 OR full_name ILIKE $1)", where)
		assert.Equal(t, []any{"%ada%"}, args)
	})

	t.Run("all conditions numbered in order", func(t *testing.T) {
		after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		before := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		where, args := buildFilterWhere(repository.Filter{
			Search:        "x",
			Role:          "admin",
			Status:        "active",
			CreatedAfter:  &after,
			CreatedBefore: &before,
		})
		assert.Equal(t,
			" WHERE (email ILIKE $1 OR full_name ILIKE $1) AND role = $2 AND status = $3 AND created_at >= $4 AND created_at <= $5",
			where)
		assert.Len(t, args, 5)
		assert.Equal(t, "admin", args[1])
		assert.Equal(t, after, args[3])
	})
}

func TestSortColumn(t *testing.T) {
	assert.Equal(t, "email", sortColumn(repository.SortByEmail))
	assert.Equal(t, "full_name", sortColumn(repository.SortByFullName))
	assert.Equal(t, "updated_at", sortColumn(repository.SortByUpdatedAt))
	assert.Equal(t, "created_at", sortColumn(repository.SortByCreatedAt))

	// anything unexpected falls back instead of reaching the query
	assert.Equal(t, "created_at", sortColumn("email; DROP TABLE users"))
	assert.Equal(t, "created_at", sortColumn(""))
}

func TestNormalizePage(t *testing.T) {
	p := normalizePage(repository.Pagination{})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, repository.SortDesc, p.SortOrder)

	p = normalizePage(repository.Pagination{Page: -3, PageSize: 5000, SortOrder: "DROP"})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, repository.SortDesc, p.SortOrder)

	p = normalizePage(repository.Pagination{Page: 4, PageSize: 25, SortOrder: repository.SortAsc})
	assert.Equal(t, 4, p.Page)
	assert.Equal(t, 25, p.PageSize)
	assert.Equal(t, repository.SortAsc, p.SortOrder)
}
