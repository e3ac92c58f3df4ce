package public

import "github.com/bookcart/internal/provider"

// Handler 前台接口处理器入口
// 说明：访客与注册用户共用，会话由中间件解析后写入上下文。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
