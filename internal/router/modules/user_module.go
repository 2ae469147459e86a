package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adminsuite/user-service/internal/container"
	handlers "github.com/adminsuite/user-service/internal/interface/http"
	"github.com/adminsuite/user-service/internal/interface/middleware"
)

// UserModule registers the user CRUD routes. Everything is behind auth;
// creation and deletion additionally require the admin role at the transport
// level (the delete rules still apply on top).
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(container.GetRedis(), container.GetJWT()))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/lookup", m.Handler.Lookup)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.POST("/:id/avatar", m.Handler.UploadAvatar)

		admin := auth.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", m.Handler.Create)
			admin.DELETE("/:id", m.Handler.Delete)
		}
	}
}
