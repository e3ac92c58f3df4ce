package public

import (
	"github.com/bookcart/internal/constants"
	handlershared "github.com/bookcart/internal/http/handlers/shared"
	"github.com/bookcart/internal/http/response"
	"github.com/bookcart/internal/i18n"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/service"

	"github.com/gin-gonic/gin"
)

// CredentialsRequest 注册/登录请求，支持 JSON 与表单
type CredentialsRequest struct {
	Email       string `json:"email" form:"email" binding:"required"`
	Password    string `json:"password" form:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id" form:"captcha_id"`
	CaptchaCode string `json:"captcha_code" form:"captcha_code"`
}

func (r CredentialsRequest) captchaPayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{CaptchaID: r.CaptchaID, CaptchaCode: r.CaptchaCode}
}

// Landing 首页
func (h *Handler) Landing(c *gin.Context) {
	sess := handlershared.SessionFrom(c)
	response.Success(c, gin.H{
		"app":       i18n.T(i18n.ResolveLocale(c), "app.welcome"),
		"member":    sess.IsMember(),
		"guest":     sess != nil && sess.Guest,
		"login":     "/login",
		"register":  "/register",
		"dashboard": "/dashboard",
		"cart":      "/cart",
	})
}

// RegisterForm 注册表单描述
func (h *Handler) RegisterForm(c *gin.Context) {
	h.credentialsForm(c, constants.CaptchaSceneRegister)
}

// LoginForm 登录表单描述
func (h *Handler) LoginForm(c *gin.Context) {
	h.credentialsForm(c, constants.CaptchaSceneLogin)
}

func (h *Handler) credentialsForm(c *gin.Context, scene string) {
	setting := h.CaptchaService.PublicSetting()
	response.Success(c, gin.H{
		"fields":           []string{"email", "password"},
		"captcha_provider": setting.Provider,
		"captcha_required": setting.Scenes[scene],
	})
}

// StartGuestSession 为匿名访客创建访客会话
func (h *Handler) StartGuestSession(c *gin.Context) {
	if sess := handlershared.SessionFrom(c); sess != nil {
		response.Success(c, gin.H{"user_id": sess.UserID, "guest": sess.Guest, "expires_at": sess.ExpiresAt})
		return
	}
	result, err := h.UserAuthService.StartGuestSession(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.writeSessionCookie(c, result.Session)
	response.Success(c, authPayload(result))
}

// Register 注册；访客会话下原地升级为正式账号
func (h *Handler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !h.verifyCaptcha(c, constants.CaptchaSceneRegister, req.captchaPayload()) {
		return
	}

	result, err := h.UserAuthService.Register(c.Request.Context(), handlershared.SessionFrom(c), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("user_registered", "user_id", result.User.ID)
	h.writeSessionCookie(c, result.Session)
	response.Success(c, authPayload(result))
}

// Login 登录；访客会话下将访客购物车合并到账号
func (h *Handler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !h.verifyCaptcha(c, constants.CaptchaSceneLogin, req.captchaPayload()) {
		return
	}

	result, err := h.UserAuthService.Login(c.Request.Context(), handlershared.SessionFrom(c), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.writeSessionCookie(c, result.Session)
	response.Success(c, authPayload(result))
}

// Logout 注销当前会话，无会话时仅清理 Cookie
func (h *Handler) Logout(c *gin.Context) {
	if sess := handlershared.SessionFrom(c); sess != nil {
		if err := h.UserAuthService.Logout(c.Request.Context(), sess); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	h.clearSessionCookie(c)
	response.Success(c, gin.H{"logged_out": true})
}

func authPayload(result *service.AuthResult) gin.H {
	return gin.H{
		"user":       userPayload(result.User),
		"token":      result.Session.Token,
		"expires_at": result.Session.ExpiresAt,
	}
}

func userPayload(user *models.User) gin.H {
	if user == nil {
		return nil
	}
	email := user.Email
	if user.IsGuest() {
		email = ""
	}
	return gin.H{
		"id":    user.ID,
		"email": email,
		"guest": user.IsGuest(),
	}
}
