package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/adminsuite/user-service/internal/domain/entity"
	repo "github.com/adminsuite/user-service/internal/domain/repository"
	"github.com/adminsuite/user-service/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active")
)

const sessionKeyPrefix = "session:"

// TokenPair is the issued access/refresh pair with expiries.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessExp    time.Time `json:"access_exp"`
	RefreshExp   time.Time `json:"refresh_exp"`
}

// AuthService authenticates users and manages token sessions. It is the only
// writer of last_login_at.
type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Redis: rdb, Logger: logger}
}

// Authenticate verifies the credentials and returns the user. Banned and
// inactive accounts cannot log in even with a correct password.
func (a *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := a.Repo.FindByEmail(ctx, FormatEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, ErrAccountInactive
	}

	if err := a.Repo.TouchLastLogin(ctx, u.ID); err != nil && a.Logger != nil {
		a.Logger.WithError(err).WithField("user_id", u.ID).Warn("touch last login failed")
	}
	return u, nil
}

// IssueTokens creates an access/refresh pair and records the session in Redis.
func (a *AuthService) IssueTokens(ctx context.Context, u *entity.User) (*TokenPair, error) {
	access, aexp, err := a.JWT.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	refresh, rexp, err := a.JWT.GenerateRefreshToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	if a.Redis != nil {
		key := sessionKeyPrefix + u.ID
		pipe := a.Redis.TxPipeline()
		pipe.HSet(ctx, key, map[string]any{
			"email":      u.Email,
			"role":       string(u.Role),
			"issued_at":  time.Now().UTC().Format(time.RFC3339),
			"refresh_at": rexp.UTC().Format(time.RFC3339),
		})
		pipe.Expire(ctx, key, time.Until(rexp))
		if _, err := pipe.Exec(ctx); err != nil && a.Logger != nil {
			a.Logger.WithError(err).WithField("user_id", u.ID).Warn("session store failed")
		}
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, AccessExp: aexp, RefreshExp: rexp}, nil
}

// Refresh validates the refresh token, checks the session is still live and
// the account still active, and issues a fresh pair.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if a.Redis != nil {
		n, err := a.Redis.Exists(ctx, sessionKeyPrefix+claims.UserID).Result()
		if err == nil && n == 0 {
			return nil, ErrInvalidCredentials
		}
	}

	u, err := a.Repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, ErrAccountInactive
	}
	return a.IssueTokens(ctx, u)
}

// Logout drops the session so the refresh token stops working.
func (a *AuthService) Logout(ctx context.Context, userID string) error {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Del(ctx, sessionKeyPrefix+userID).Err()
}
