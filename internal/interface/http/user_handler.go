package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/adminsuite/user-service/internal/application"
	"github.com/adminsuite/user-service/internal/domain/entity"
	"github.com/adminsuite/user-service/internal/domain/repository"
	"github.com/adminsuite/user-service/pkg/response"
)

// UserHandler exposes the user CRUD slice over HTTP. It translates between
// gin and the command handlers and maps failure codes to status codes.
type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// statusForCode maps stable failure codes onto HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case userapp.CodeValidationError,
		userapp.CodePasswordTooShort,
		userapp.CodePasswordNoUppercase,
		userapp.CodePasswordNoLowercase,
		userapp.CodePasswordNoNumber:
		return http.StatusBadRequest
	case userapp.CodeEmailExists:
		return http.StatusConflict
	case userapp.CodeUserNotFound, userapp.CodeActorNotFound:
		return http.StatusNotFound
	case userapp.CodeCannotDeleteSelf, userapp.CodeCannotDeleteAdmin:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func failWith[T any](c *gin.Context, res userapp.Result[T]) {
	response.ErrorCode[any](c, statusForCode(res.Code), res.Code, res.Error, nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var cmd userapp.CreateUserCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorCode[any](c, http.StatusBadRequest, userapp.CodeValidationError, "invalid payload", err.Error())
		return
	}

	res := h.Svc.CreateUser(c.Request.Context(), cmd)
	if !res.Success {
		failWith(c, res)
		return
	}
	response.Success(c, http.StatusCreated, res.Data, "user created", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	res := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if !res.Success {
		failWith(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "user", nil)
}

// Lookup fetches a user by email, given as the "email" query parameter.
func (h *UserHandler) Lookup(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.ErrorCode[any](c, http.StatusBadRequest, userapp.CodeValidationError, "email query parameter is required", nil)
		return
	}
	res := h.Svc.GetUserByEmail(c.Request.Context(), email)
	if !res.Success {
		failWith(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "user", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var cmd userapp.UpdateUserCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorCode[any](c, http.StatusBadRequest, userapp.CodeValidationError, "invalid payload", err.Error())
		return
	}
	cmd.ID = c.Param("id")

	res := h.Svc.UpdateUser(c.Request.Context(), cmd)
	if !res.Success {
		failWith(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	cmd := userapp.DeleteUserCommand{
		ID:      c.Param("id"),
		ActorID: c.GetString("userID"),
	}

	res := h.Svc.DeleteUser(c.Request.Context(), cmd)
	if !res.Success {
		failWith(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "user deleted", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	q := userapp.ListUsersQuery{
		Filter: repository.Filter{
			Search: c.Query("search"),
			Role:   entity.Role(c.Query("role")),
			Status: entity.Status(c.Query("status")),
		},
		Pagination: repository.Pagination{
			Page:      intQuery(c, "page", 1),
			PageSize:  intQuery(c, "page_size", 10),
			SortBy:    c.Query("sort_by"),
			SortOrder: c.Query("sort_order"),
		},
	}
	if t, ok := timeQuery(c, "created_after"); ok {
		q.Filter.CreatedAfter = &t
	}
	if t, ok := timeQuery(c, "created_before"); ok {
		q.Filter.CreatedBefore = &t
	}

	res := h.Svc.ListUsers(c.Request.Context(), q)
	if !res.Success {
		failWith(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data.Items, "users", map[string]any{
		"total":       res.Data.Total,
		"page":        res.Data.Page,
		"page_size":   res.Data.PageSize,
		"total_pages": res.Data.TotalPages,
	})
}

// Search runs a full-text query over the search index.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.ErrorCode[any](c, http.StatusBadRequest, userapp.CodeValidationError, "q query parameter is required", nil)
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, intQuery(c, "size", 10))
	if err != nil {
		h.Logger.WithError(err).Warn("user search failed")
		response.ErrorCode[any](c, http.StatusInternalServerError, userapp.CodeListFailed, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// UploadAvatar accepts a multipart "avatar" file and stores it in object
// storage.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.ErrorCode[any](c, http.StatusBadRequest, userapp.CodeValidationError, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.ErrorCode[any](c, http.StatusBadRequest, userapp.CodeValidationError, "could not read avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if err == userapp.ErrUserNotFound {
			response.ErrorCode[any](c, http.StatusNotFound, userapp.CodeUserNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("avatar upload failed")
		response.ErrorCode[any](c, http.StatusInternalServerError, userapp.CodeUpdateFailed, "avatar upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func timeQuery(c *gin.Context, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
