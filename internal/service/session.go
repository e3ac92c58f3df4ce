package service

import (
	"context"
	"errors"
	"time"

	"github.com/bookcart/internal/cache"
	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionContext 当前请求的会话身份，由中间件解析后显式传入各服务
type SessionContext struct {
	UserID    uint
	Email     string
	Guest     bool
	TokenID   string
	ExpiresAt time.Time
}

// IsMember 是否为已注册用户
func (s *SessionContext) IsMember() bool {
	return s != nil && s.UserID != 0 && !s.Guest
}

// SessionClaims 会话令牌声明
type SessionClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Guest        bool   `json:"guest,omitempty"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// SessionToken 签发结果
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionManager 会话令牌签发与校验
type SessionManager struct {
	cfg      config.SessionConfig
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewSessionManager 创建会话管理器
func NewSessionManager(cfg config.SessionConfig, userRepo repository.UserRepository) *SessionManager {
	return &SessionManager{cfg: cfg, userRepo: userRepo, now: time.Now}
}

// Issue 为用户签发会话令牌
func (m *SessionManager) Issue(user *models.User) (*SessionToken, error) {
	hours := m.cfg.ExpireHours
	if user.IsGuest() {
		hours = m.cfg.GuestExpireHours
	}
	if hours <= 0 {
		hours = 24
	}
	now := m.now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := SessionClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Guest:        user.IsGuest(),
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.SecretKey))
	if err != nil {
		return nil, err
	}
	return &SessionToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse 校验令牌签名、有效期、注销状态与账号版本
func (m *SessionManager) Parse(ctx context.Context, tokenString string) (*SessionContext, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.cfg.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, ErrSessionInvalid
	}

	// 注销名单读取失败时按存储故障拒绝
	revoked, err := cache.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		logger.Ctx(ctx).Warnw("session_revocation_check_failed", "user_id", claims.UserID, "error", err)
		return nil, wrapStorage("check session revocation", err)
	}
	if revoked {
		return nil, ErrSessionRevoked
	}

	state, err := m.loadAuthState(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrSessionInvalid
	}
	if state.Status == models.UserStatusDisabled {
		return nil, ErrUserDisabled
	}
	if state.TokenVersion != claims.TokenVersion || (state.Status == models.UserStatusGuest) != claims.Guest {
		return nil, ErrSessionRevoked
	}

	session := &SessionContext{
		UserID:  claims.UserID,
		Email:   state.Email,
		Guest:   claims.Guest,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (m *SessionManager) loadAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	if cached, hit, err := cache.GetUserAuthState(ctx, userID); err == nil && hit && cached != nil {
		return cached, nil
	}
	user, err := m.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapStorage("load session user", err)
	}
	if user == nil {
		return nil, nil
	}
	state := cache.BuildUserAuthState(user)
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		logger.Ctx(ctx).Warnw("auth_state_cache_set_failed", "user_id", userID, "error", err)
	}
	return state, nil
}

// IsSessionError 判断是否为会话失效类错误
func IsSessionError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrSessionInvalid) ||
		errors.Is(err, ErrSessionRevoked) ||
		errors.Is(err, ErrUserDisabled)
}
