package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
	// 写超时在请求超时之上留出余量，保证超时中间件的响应能写出
	writeTimeoutGrace = 5 * time.Second
)

// HTTPService 书城 API 服务
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 按 server 配置创建 HTTP 服务
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	if cfg.RequestTimeoutSeconds > 0 {
		requestTimeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
		server.ReadTimeout = requestTimeout
		server.WriteTimeout = requestTimeout + writeTimeoutGrace
	}
	return &HTTPService{server: server}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Addr 监听地址
func (s *HTTPService) Addr() string {
	if s == nil || s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Start 先绑定端口再开始服务，端口占用会立即作为启动失败返回
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	logger.Infow("http_listening", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 优雅关闭；超时后强制断开剩余连接
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warnw("http_shutdown_forced", "addr", s.server.Addr)
		return s.server.Close()
	}
	return err
}
