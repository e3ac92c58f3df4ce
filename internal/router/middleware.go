package router

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bookcart/internal/authz"
	"github.com/bookcart/internal/config"
	handlershared "github.com/bookcart/internal/http/handlers/shared"
	"github.com/bookcart/internal/http/response"
	"github.com/bookcart/internal/i18n"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// RequestTimeoutMiddleware 为请求上下文设置超时，数据库与 Redis 调用随之取消
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionAuthMiddleware 解析会话令牌（Cookie 优先，其次 Bearer）
// 无令牌或令牌失效时按匿名请求放行，由需要会话的处理器拒绝；存储故障直接返回错误。
func SessionAuthMiddleware(authService *service.UserAuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := readSessionToken(c, cookieName)
		if token == "" || authService == nil {
			c.Next()
			return
		}
		sess, err := authService.ParseSession(c.Request.Context(), token)
		if err != nil {
			if service.IsSessionError(err) {
				logger.Ctx(c.Request.Context()).Debugw("session_rejected", "path", c.Request.URL.Path, "error", err)
				c.Next()
				return
			}
			handlershared.RespondServiceError(c, err)
			c.Abort()
			return
		}
		handlershared.SetSession(c, sess)
		c.Next()
	}
}

// RequireMemberMiddleware 要求已注册用户会话
func RequireMemberMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := handlershared.SessionFrom(c)
		if !sess.IsMember() {
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Abort(c, response.CodeUnauthorized, msg)
			return
		}
		c.Next()
	}
}

// CatalogRBACMiddleware 目录管理 RBAC 鉴权中间件
func CatalogRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("catalog_rbac_service_unavailable")
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Abort(c, response.CodeForbidden, msg)
			return
		}

		sess := handlershared.SessionFrom(c)
		if !sess.IsMember() {
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Abort(c, response.CodeUnauthorized, msg)
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceUser(sess.UserID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("catalog_rbac_enforce_failed",
				"user_id", sess.UserID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.internal")
			response.Abort(c, response.CodeInternal, msg)
			return
		}
		if !allowed {
			logger.Warnw("catalog_rbac_permission_denied",
				"user_id", sess.UserID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Abort(c, response.CodeForbidden, msg)
			return
		}

		c.Next()
	}
}

func readSessionToken(c *gin.Context, cookieName string) string {
	if name := strings.TrimSpace(cookieName); name != "" {
		if value, err := c.Cookie(name); err == nil && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
