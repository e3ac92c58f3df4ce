package router

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/http/response"
	"github.com/bookcart/internal/i18n"
	"github.com/bookcart/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// 首次尝试设置窗口过期；第 max+1 次时把过期改为封禁时长
var loginAttemptScript = redis.NewScript(`
local attempts = redis.call("INCR", KEYS[1])
if attempts == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local block = tonumber(ARGV[3])
if block > 0 and attempts == tonumber(ARGV[2]) + 1 then
	redis.call("EXPIRE", KEYS[1], block)
end
return {attempts, redis.call("TTL", KEYS[1])}
`)

// LoginThrottle 按“邮箱|IP”统计登录尝试，超限后拒绝直到窗口或封禁期结束
type LoginThrottle struct {
	Prefix        string
	WindowSeconds int
	MaxAttempts   int
	BlockSeconds  int // 0 表示沿用窗口剩余时间
}

// NewLoginThrottle 由安全配置构造登录限流
func NewLoginThrottle(redisPrefix string, cfg config.LoginRateLimitConfig) LoginThrottle {
	prefix := strings.TrimSpace(redisPrefix)
	if prefix == "" {
		prefix = "bc"
	}
	return LoginThrottle{
		Prefix:        prefix + ":rate:login",
		WindowSeconds: cfg.WindowSeconds,
		MaxAttempts:   cfg.MaxAttempts,
		BlockSeconds:  cfg.BlockSeconds,
	}
}

func (t LoginThrottle) enabled() bool {
	return t.WindowSeconds > 0 && t.MaxAttempts > 0
}

// Middleware 未配置 Redis 或限流参数时直接放行；Redis 出错时拒绝登录
func (t LoginThrottle) Middleware(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !t.enabled() {
			c.Next()
			return
		}
		locale := i18n.ResolveLocale(c)
		key := t.Prefix + ":" + loginAttemptKey(c)

		counts, err := loginAttemptScript.Run(c.Request.Context(), client, []string{key},
			t.WindowSeconds, t.MaxAttempts, t.BlockSeconds).Int64Slice()
		if err != nil || len(counts) < 2 {
			logger.Ctx(c.Request.Context()).Warnw("login_throttle_unavailable", "error", err)
			response.Abort(c, response.CodeInternal, i18n.T(locale, "error.rate_limit_unavailable"))
			return
		}
		if attempts := counts[0]; attempts > int64(t.MaxAttempts) {
			wait := t.retryAfter(counts[1])
			c.Header("Retry-After", strconv.Itoa(wait))
			response.Abort(c, response.CodeTooManyRequests, i18n.Sprintf(locale, "error.rate_limited", wait))
			return
		}
		c.Next()
	}
}

func (t LoginThrottle) retryAfter(ttl int64) int {
	if ttl >= 1 {
		return int(ttl)
	}
	if t.WindowSeconds >= 1 {
		return t.WindowSeconds
	}
	return 1
}

// loginAttemptKey 邮箱小写后与客户端 IP 组合；请求里没有邮箱时只按 IP
func loginAttemptKey(c *gin.Context) string {
	email := strings.ToLower(readLoginEmail(c))
	if email == "" {
		return c.ClientIP()
	}
	return email + "|" + c.ClientIP()
}

// readLoginEmail 兼容 JSON 与表单登录，读取后恢复请求体供处理器绑定
func readLoginEmail(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return ""
	}
	if !strings.Contains(strings.ToLower(c.ContentType()), "json") {
		return strings.TrimSpace(c.PostForm("email"))
	}
	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Email)
}
