package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bookcart/internal/authz"
	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/provider"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupContainer(t *testing.T) *provider.Container {
	t.Helper()
	dsn := fmt.Sprintf("file:app_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{
		Session: config.SessionConfig{SecretKey: "app-test-secret", ExpireHours: 24, GuestExpireHours: 24},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
	}
	c, err := provider.NewContainerWithDB(cfg, db, nil)
	if err != nil {
		t.Fatalf("init container failed: %v", err)
	}
	return c
}

func TestEnsureCatalogAdmin(t *testing.T) {
	c := setupContainer(t)
	admin := config.AdminConfig{Email: "admin@example.com", Password: "admin-pass1"}

	if err := EnsureCatalogAdmin(context.Background(), c, admin); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	if err := EnsureCatalogAdmin(context.Background(), c, admin); err != nil {
		t.Fatalf("ensure admin should be idempotent: %v", err)
	}

	result, err := c.UserAuthService.Login(context.Background(), nil, admin.Email, admin.Password)
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	allowed, err := c.AuthzService.EnforceUser(result.User.ID, "/add-book", "POST")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if !allowed {
		t.Fatalf("admin should be allowed to add books")
	}
	roles, err := c.AuthzService.GetUserRoles(result.User.ID)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != authz.RoleCatalogAdmin {
		t.Fatalf("unexpected roles %v", roles)
	}
}

func TestEnsureCatalogAdminSkipsWhenUnconfigured(t *testing.T) {
	c := setupContainer(t)
	if err := EnsureCatalogAdmin(context.Background(), c, config.AdminConfig{}); err != nil {
		t.Fatalf("unconfigured admin should be skipped, got %v", err)
	}
	if err := EnsureCatalogAdmin(context.Background(), nil, config.AdminConfig{}); err == nil {
		t.Fatalf("expected error for nil container")
	}
}
