package app

import (
	"context"
	"errors"
	"strings"

	"github.com/bookcart/internal/authz"
	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/provider"
)

// EnsureCatalogAdmin 按配置创建默认目录管理员并授予 catalog_admin 角色，可重复执行
func EnsureCatalogAdmin(ctx context.Context, c *provider.Container, admin config.AdminConfig) error {
	if c == nil || c.UserAuthService == nil || c.AuthzService == nil {
		return errors.New("container not initialized")
	}
	email := strings.TrimSpace(admin.Email)
	if email == "" {
		logger.Debugw("catalog_admin_skip_unconfigured")
		return nil
	}
	user, created, err := c.UserAuthService.EnsureAccount(ctx, email, admin.Password)
	if err != nil {
		return err
	}
	if err := c.AuthzService.AssignUserRole(user.ID, authz.RoleCatalogAdmin); err != nil {
		return err
	}
	logger.Infow("catalog_admin_ready", "user_id", user.ID, "created", created)
	return nil
}
