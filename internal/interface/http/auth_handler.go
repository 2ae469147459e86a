package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/adminsuite/user-service/internal/application"
	"github.com/adminsuite/user-service/pkg/helpers"
	"github.com/adminsuite/user-service/pkg/response"
	"github.com/adminsuite/user-service/pkg/validation"
)

// AuthHandler exposes login, token refresh and logout. User CRUD lives in
// UserHandler; this handler only trades credentials for cookie sessions.
type AuthHandler struct {
	Auth    *userapp.AuthService
	Users   *userapp.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(auth *userapp.AuthService, users *userapp.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Auth: auth, Users: users, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == userapp.ErrAccountInactive {
			response.Error[any](c, http.StatusForbidden, "account is not active", nil)
			return
		}
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	pair, err := h.Auth.IssueTokens(c.Request.Context(), u)
	if err != nil {
		h.Logger.WithError(err).Error("token issue failed")
		response.Error[any](c, http.StatusInternalServerError, "could not issue tokens", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExp, pair.RefreshToken, pair.RefreshExp)
	response.Success(c, http.StatusOK, userapp.ToUserResponse(u), "login successful", map[string]any{
		"access_expires_at":  pair.AccessExp,
		"refresh_expires_at": pair.RefreshExp,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Auth.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessExp, pair.RefreshToken, pair.RefreshExp)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessExp,
		"refresh_expires_at": pair.RefreshExp,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if uid := c.GetString("userID"); uid != "" {
		if err := h.Auth.Logout(c.Request.Context(), uid); err != nil {
			h.Logger.WithError(err).Warn("session delete failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(c *gin.Context) {
	res := h.Users.GetUser(c.Request.Context(), c.GetString("userID"))
	if !res.Success {
		failWith(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "profile", nil)
}
