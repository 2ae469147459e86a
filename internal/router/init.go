package router

import (
	userapp "github.com/adminsuite/user-service/internal/application"
	"github.com/adminsuite/user-service/internal/container"
	pginfra "github.com/adminsuite/user-service/internal/infrastructure/postgres"
	handlers "github.com/adminsuite/user-service/internal/interface/http"
	"github.com/adminsuite/user-service/internal/router/modules"
	"github.com/adminsuite/user-service/pkg/cache"
)

func buildServices() (*userapp.Service, *userapp.AuthService) {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	var userCache *userapp.UserCache
	if rdb := container.GetRedis(); rdb != nil {
		userCache = userapp.NewUserCache(cache.NewRedisStore(rdb), cfg.UserCacheTTL)
	}

	svc := userapp.NewService(repo, userCache, container.GetLogger())
	if pub := container.GetRabbitPub(); pub != nil {
		svc.Publisher = pub
	}
	svc.GCS = container.GetGCS()
	svc.GCSBucket = cfg.GCSBucket
	svc.ES = container.GetES()
	svc.ESUsersIndex = cfg.ESUsersIndex

	auth := userapp.NewAuthService(repo, container.GetJWT(), container.GetRedis(), container.GetLogger())
	return svc, auth
}

// InitModules wires all feature modules into the registry. Called once at
// startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc, auth := buildServices()

	userHandler := handlers.NewUserHandler(svc, container.GetLogger())
	authHandler := handlers.NewAuthHandler(auth, svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewAuthModule(authHandler))

	if pub := container.GetRabbitPub(); pub != nil {
		emailHandler := handlers.NewEmailHandler(pub, container.GetLogger(), cfg)
		r.Add(modules.NewEmailModule(emailHandler))
	}
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
