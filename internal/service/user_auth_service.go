package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/bookcart/internal/cache"
	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/constants"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const guestPurgeBatchSize = 200

// bcryptCost 密码哈希强度，测试中可调低
var bcryptCost = bcrypt.DefaultCost

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
	sessions *SessionManager
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, cartRepo repository.CartRepository, sessions *SessionManager) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		cartRepo: cartRepo,
		sessions: sessions,
	}
}

// AuthResult 登录/注册结果
type AuthResult struct {
	User    *models.User
	Session *SessionToken
}

// Sessions 返回会话管理器
func (s *UserAuthService) Sessions() *SessionManager {
	return s.sessions
}

// Register 用户注册；当前为访客会话时原地升级访客账号，保留其购物车
func (s *UserAuthService) Register(ctx context.Context, sess *SessionContext, email, password string) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, wrapStorage("lookup email", err)
	}
	if exist != nil {
		return nil, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var user *models.User
	if sess != nil && sess.Guest {
		guest, err := s.userRepo.GetByID(ctx, sess.UserID)
		if err != nil {
			return nil, wrapStorage("load guest", err)
		}
		if guest.IsGuest() {
			guest.Email = normalized
			guest.PasswordHash = string(hashed)
			guest.Status = models.UserStatusActive
			guest.TokenVersion++
			guest.LastLoginAt = &now
			guest.UpdatedAt = now
			if err := s.userRepo.Update(ctx, guest); err != nil {
				return nil, translateUserWriteError("promote guest", err)
			}
			user = guest
		}
	}
	if user == nil {
		user = &models.User{
			Email:        normalized,
			PasswordHash: string(hashed),
			Status:       models.UserStatusActive,
			LastLoginAt:  &now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, translateUserWriteError("create user", err)
		}
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	s.refreshAuthState(ctx, user)
	logger.Ctx(ctx).Infow("user_registered", "user_id", user.ID, "from_guest", sess != nil && sess.Guest)
	return &AuthResult{User: user, Session: token}, nil
}

// Login 用户登录；当前为访客会话时将访客购物车合并进账号
func (s *UserAuthService) Login(ctx context.Context, sess *SessionContext, email, password string) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		compareDummyPassword(password)
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, wrapStorage("lookup email", err)
	}
	if user == nil || user.IsGuest() || user.PasswordHash == "" {
		compareDummyPassword(password)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == models.UserStatusDisabled {
		return nil, ErrUserDisabled
	}

	now := time.Now()
	user.LastLoginAt = &now
	guestID := uint(0)
	if sess != nil && sess.Guest && sess.UserID != user.ID {
		guestID = sess.UserID
	}

	err = s.cartRepo.Transaction(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		if guestID != 0 {
			guest, err := userRepo.GetByID(ctx, guestID)
			if err != nil {
				return err
			}
			if guest.IsGuest() {
				if err := s.cartRepo.WithTx(tx).MoveToUser(ctx, guest.ID, user.ID, constants.MaxCartQuantity); err != nil {
					return err
				}
				if _, err := userRepo.DeleteGuest(ctx, guest.ID, time.Time{}); err != nil {
					return err
				}
			}
		}
		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, wrapStorage("login", err)
	}
	if guestID != 0 {
		_ = cache.DelUserAuthState(ctx, guestID)
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	s.refreshAuthState(ctx, user)
	logger.Ctx(ctx).Infow("user_logged_in", "user_id", user.ID, "merged_guest_id", guestID)
	return &AuthResult{User: user, Session: token}, nil
}

// Logout 结束会话，重复调用无副作用。
// 启用 Redis 时仅注销当前令牌，否则提升账号令牌版本使其全部会话失效。
func (s *UserAuthService) Logout(ctx context.Context, sess *SessionContext) error {
	if sess == nil || sess.UserID == 0 {
		return nil
	}
	if cache.Enabled() {
		if err := cache.RevokeSession(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
			return wrapStorage("revoke session", err)
		}
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return wrapStorage("load user", err)
	}
	if user == nil {
		return nil
	}
	user.TokenVersion++
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return wrapStorage("bump token version", err)
	}
	return nil
}

// StartGuestSession 创建访客占位账号并签发访客令牌
func (s *UserAuthService) StartGuestSession(ctx context.Context) (*AuthResult, error) {
	now := time.Now()
	guest := &models.User{
		Email:     fmt.Sprintf("%s%s@%s", constants.GuestEmailPrefix, uuid.NewString(), constants.GuestEmailDomain),
		Status:    models.UserStatusGuest,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, guest); err != nil {
		return nil, wrapStorage("create guest", err)
	}
	token, err := s.sessions.Issue(guest)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: guest, Session: token}, nil
}

// ParseSession 解析会话令牌
func (s *UserAuthService) ParseSession(ctx context.Context, token string) (*SessionContext, error) {
	return s.sessions.Parse(ctx, token)
}

// GetUser 获取会话对应的用户
func (s *UserAuthService) GetUser(ctx context.Context, sess *SessionContext) (*models.User, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, wrapStorage("load user", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// EnsureAccount 确保指定邮箱的正式账号存在（用于默认管理员），已存在时不修改密码
func (s *UserAuthService) EnsureAccount(ctx context.Context, email, password string) (*models.User, bool, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}
	exist, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, false, wrapStorage("lookup email", err)
	}
	if exist != nil {
		return exist, false, nil
	}
	if strings.TrimSpace(password) == "" {
		return nil, false, ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, false, err
	}
	user := &models.User{Email: normalized, PasswordHash: string(hashed), Status: models.UserStatusActive}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, translateUserWriteError("create account", err)
	}
	return user, true, nil
}

// PurgeExpiredGuests 删除超过访客有效期的占位账号及其购物车，返回删除数量
func (s *UserAuthService) PurgeExpiredGuests(ctx context.Context, now time.Time) (int, error) {
	hours := s.cfg.Session.GuestExpireHours
	if hours <= 0 {
		hours = 24
	}
	cutoff := now.Add(-time.Duration(hours) * time.Hour)
	purged := 0
	for {
		ids, err := s.userRepo.ListGuestIDsBefore(ctx, cutoff, guestPurgeBatchSize)
		if err != nil {
			return purged, wrapStorage("list expired guests", err)
		}
		if len(ids) == 0 {
			return purged, nil
		}
		// 删除时重新校验访客状态，只清理实际删除账号的购物车
		deleted := make([]uint, 0, len(ids))
		err = s.cartRepo.Transaction(ctx, func(tx *gorm.DB) error {
			carts := s.cartRepo.WithTx(tx)
			users := s.userRepo.WithTx(tx)
			for _, id := range ids {
				affected, err := users.DeleteGuest(ctx, id, cutoff)
				if err != nil {
					return err
				}
				if affected == 0 {
					continue
				}
				if err := carts.ClearByUser(ctx, id); err != nil {
					return err
				}
				deleted = append(deleted, id)
			}
			return nil
		})
		if err != nil {
			return purged, wrapStorage("purge guests", err)
		}
		for _, id := range deleted {
			_ = cache.DelUserAuthState(ctx, id)
		}
		purged += len(deleted)
		if len(ids) < guestPurgeBatchSize {
			return purged, nil
		}
	}
}

func (s *UserAuthService) refreshAuthState(ctx context.Context, user *models.User) {
	if err := cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user)); err != nil {
		logger.Ctx(ctx).Warnw("auth_state_cache_set_failed", "user_id", user.ID, "error", err)
	}
}

func translateUserWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return wrapStorage(op, err)
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || len(normalized) > 254 {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(normalized)
	if err != nil || parsed.Address != normalized {
		return "", ErrInvalidEmail
	}
	if strings.HasSuffix(normalized, "@"+constants.GuestEmailDomain) {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// compareDummyPassword 账号不存在时仍执行一次哈希比较，避免通过耗时判断邮箱是否注册
func compareDummyPassword(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bookcart-dummy-password"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
