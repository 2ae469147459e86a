package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adminsuite/user-service/internal/container"
	handlers "github.com/adminsuite/user-service/internal/interface/http"
	"github.com/adminsuite/user-service/internal/interface/middleware"
)

// EmailModule registers the admin-only ad-hoc email endpoint.
type EmailModule struct {
	Handler *handlers.EmailHandler
}

func NewEmailModule(h *handlers.EmailHandler) *EmailModule {
	return &EmailModule{Handler: h}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(
		middleware.Auth(container.GetRedis(), container.GetJWT()),
		middleware.RequireAdmin(),
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/email/send", m.Handler.Send)
	}
}
