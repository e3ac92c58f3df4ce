package worker

import (
	"context"
	"errors"
	"time"

	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	guestPurgeInterval = 30 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务；队列关闭时仅运行访客清理循环
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	if cfg == nil || !cfg.Enabled {
		logger.Warnw("worker_queue_disabled", "mode", "maintenance_only")
		return &Service{name: "worker", consumer: consumer}, nil
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("worker not initialized")
	}
	if s.server != nil && s.mux != nil {
		if err := s.server.Start(s.mux); err != nil {
			return err
		}
	}
	if s.consumer.UserAuthService != nil {
		s.runGuestPurgeLoop(ctx)
		return nil
	}
	<-ctx.Done()
	return nil
}

// Stop 停止服务；asynq 按自身的 ShutdownTimeout 等待在途任务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return ctx.Err()
}

// runGuestPurgeLoop 定期清理过期访客账号及其购物车
func (s *Service) runGuestPurgeLoop(ctx context.Context) {
	runOnce := func() {
		purged, err := s.consumer.UserAuthService.PurgeExpiredGuests(ctx, time.Now())
		if err != nil {
			logger.Warnw("worker_guest_purge_failed", "error", err)
			return
		}
		if purged > 0 {
			logger.Infow("worker_guest_purged", "count", purged)
		}
	}
	runOnce()

	ticker := time.NewTicker(guestPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
