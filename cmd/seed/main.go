package main

import (
	"context"
	"flag"

	"github.com/bookcart/internal/app"
	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/provider"
)

func main() {
	var adminEmail, adminPassword string
	flag.StringVar(&adminEmail, "admin-email", "", "目录管理员邮箱，缺省读取 admin.email")
	flag.StringVar(&adminPassword, "admin-password", "", "目录管理员密码，缺省读取 admin.password")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示目录
	inserted, err := models.SeedCatalog(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to seed catalog: %v", err)
	}

	// 目录管理员
	admin := cfg.Admin
	if adminEmail != "" {
		admin.Email = adminEmail
	}
	if adminPassword != "" {
		admin.Password = adminPassword
	}
	container, err := provider.NewContainerWithDB(cfg, models.DB, nil)
	if err != nil {
		stdLog.Fatalf("Failed to init services: %v", err)
	}
	if err := app.EnsureCatalogAdmin(context.Background(), container, admin); err != nil {
		stdLog.Fatalf("Failed to ensure catalog admin: %v", err)
	}

	logger.Infow("seed_done", "books_inserted", inserted, "admin_email", admin.Email)
}
