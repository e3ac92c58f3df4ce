package app

import (
	"context"
	"errors"
	"time"

	"github.com/bookcart/internal/cache"
	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/provider"
	"github.com/bookcart/internal/router"
	"github.com/bookcart/internal/worker"
)

const preflightTimeout = 5 * time.Second

// BuildRunner 按启动模式组装书城 API 与后台 worker
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	container := provider.NewContainer(cfg)
	preflight(container)

	var services []Service
	if servesAPI(mode) {
		engine := router.SetupRouter(cfg, container)
		router.LogCatalogPermissions(engine)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}
	if runsWorker(mode) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			_ = container.Close()
			return nil, err
		}
		services = append(services, workerService)
	}

	runner := NewRunner(services...)
	runner.OnStop(container.Close)
	return runner, nil
}

// preflight 启动前检查 Redis 并确保目录管理员存在，失败只记录告警
func preflight(container *provider.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), preflightTimeout)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		logger.Warnw("app_redis_unreachable", "error", err)
	}
	if err := EnsureCatalogAdmin(ctx, container, container.Config.Admin); err != nil {
		logger.Warnw("app_catalog_admin_init_failed", "error", err)
	}
}

// Run 应用启动入口
func Run(opts Options) error {
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return err
	}
	opts.Mode = mode
	opts = normalizeOptions(opts)

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start",
		"mode", opts.Mode,
		"queue_enabled", opts.Config.Queue.Enabled,
		"shutdown_timeout", opts.ShutdownTimeout.String(),
	)
	return RunWithOptions(runner, opts)
}
