package shared

import (
	"errors"

	"github.com/bookcart/internal/http/response"
	"github.com/bookcart/internal/i18n"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	RespondErrorWithMsg(c, code, msg, err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		RequestLog(c).Errorw("handler_error", "code", code, "message", msg, "error", err)
	}
	response.Error(c, code, msg)
}

// mappedServiceError 业务错误到接口错误码与文案的映射
type mappedServiceError struct {
	target error
	code   int
	key    string
}

var serviceErrorRules = []mappedServiceError{
	{target: service.ErrUnauthenticated, code: response.CodeUnauthorized, key: "error.unauthorized"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrSessionInvalid, code: response.CodeUnauthorized, key: "error.token_invalid"},
	{target: service.ErrSessionRevoked, code: response.CodeUnauthorized, key: "error.token_revoked"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, key: "error.user_disabled"},
	{target: service.ErrGuestCheckoutNotAllowed, code: response.CodeUnauthorized, key: "error.guest_checkout"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrDuplicateEmail, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrCaptchaConfigInvalid, code: response.CodeInternal, key: "error.captcha_config_invalid"},
	{target: service.ErrBookNotFound, code: response.CodeNotFound, key: "error.book_not_found"},
	{target: service.ErrBookNameRequired, code: response.CodeBadRequest, key: "error.book_name_required"},
	{target: service.ErrBookAuthorRequired, code: response.CodeBadRequest, key: "error.book_author_required"},
	{target: service.ErrBookPriceInvalid, code: response.CodeBadRequest, key: "error.book_price_invalid"},
	{target: service.ErrBookRatingInvalid, code: response.CodeBadRequest, key: "error.book_rating_invalid"},
	{target: service.ErrBookInUse, code: response.CodeConflict, key: "error.book_in_use"},
	{target: service.ErrCartEntryNotFound, code: response.CodeNotFound, key: "error.cart_entry_not_found"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrUnsupportedPaymentMode, code: response.CodeBadRequest, key: "error.payment_mode_unsupported"},
	{target: service.ErrShippingInfoInvalid, code: response.CodeBadRequest, key: "error.shipping_info_invalid"},
	{target: service.ErrOrderTotalOutOfRange, code: response.CodeBadRequest, key: "error.order_total_out_of_range"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
}

// localizedError 自带文案 key 与参数的业务错误（如密码策略）
type localizedError interface {
	error
	Key() string
	Args() []interface{}
}

// RespondServiceError 将服务层错误映射为统一错误响应
// 存储失败与未知错误只返回通用文案，原始错误写入日志。
func RespondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var policyErr localizedError
	if errors.As(err, &policyErr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), policyErr.Key(), policyErr.Args()...)
		RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.target) {
			RespondError(c, rule.code, rule.key, nil)
			return
		}
	}
	if errors.Is(err, service.ErrStorageFailure) {
		RespondError(c, response.CodeInternal, "error.storage_failure", err)
		return
	}
	RespondError(c, response.CodeInternal, "error.internal", err)
}
