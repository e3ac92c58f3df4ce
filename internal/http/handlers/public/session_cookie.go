package public

import (
	"net/http"
	"strings"
	"time"

	"github.com/bookcart/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultSessionCookieName = "bookcart_session"

func (h *Handler) sessionCookieName() string {
	if h.Config != nil {
		if name := strings.TrimSpace(h.Config.Session.CookieName); name != "" {
			return name
		}
	}
	return defaultSessionCookieName
}

func (h *Handler) cookieSecure() bool {
	return h.Config != nil && h.Config.Session.CookieSecure
}

// writeSessionCookie 以 HttpOnly Cookie 下发会话令牌
func (h *Handler) writeSessionCookie(c *gin.Context, token *service.SessionToken) {
	if token == nil {
		return
	}
	maxAge := int(time.Until(token.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessionCookieName(), token.Token, maxAge, "/", "", h.cookieSecure(), true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessionCookieName(), "", -1, "/", "", h.cookieSecure(), true)
}
