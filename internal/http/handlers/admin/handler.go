package admin

import (
	handlershared "github.com/bookcart/internal/http/handlers/shared"
	"github.com/bookcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 目录管理接口处理器
// 说明：路由层已完成会话校验与 casbin 授权，这里只处理业务。
type Handler struct {
	*provider.Container
}

// New 创建目录管理处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}
