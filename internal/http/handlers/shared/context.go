package shared

import (
	"strconv"
	"strings"

	"github.com/bookcart/internal/constants"
	"github.com/bookcart/internal/http/response"
	"github.com/bookcart/internal/service"

	"github.com/gin-gonic/gin"
)

// SetSession 将解析后的会话写入请求上下文
func SetSession(c *gin.Context, sess *service.SessionContext) {
	if c == nil || sess == nil {
		return
	}
	c.Set(constants.ContextKeySession, sess)
}

// SessionFrom 读取请求上下文中的会话，不存在时返回 nil
func SessionFrom(c *gin.Context) *service.SessionContext {
	if c == nil {
		return nil
	}
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return nil
	}
	sess, ok := value.(*service.SessionContext)
	if !ok {
		return nil
	}
	return sess
}

// RequireSession 读取会话，缺失时返回 401 并中止
func RequireSession(c *gin.Context) (*service.SessionContext, bool) {
	sess := SessionFrom(c)
	if sess == nil || sess.UserID == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	return sess, true
}

// ParseUintParam 解析路径中的正整数 ID
func ParseUintParam(c *gin.Context, name, invalidKey string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, invalidKey, nil)
		return 0, false
	}
	return uint(id), true
}
