package service

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrStorageFailure     = errors.New("storage failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// 账号相关错误
var (
	ErrInvalidEmail   = errors.New("invalid email")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrWeakPassword   = errors.New("password does not satisfy policy")
	ErrUserDisabled   = errors.New("user disabled")
	ErrSessionInvalid = errors.New("session invalid")
	ErrSessionRevoked = errors.New("session revoked")
)

// 验证码与邮件错误
var (
	ErrCaptchaRequired           = errors.New("captcha required")
	ErrCaptchaInvalid            = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid      = errors.New("captcha config invalid")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// 目录错误
var (
	ErrBookNotFound       = fmt.Errorf("book %w", ErrNotFound)
	ErrBookNameRequired   = errors.New("book name required")
	ErrBookAuthorRequired = errors.New("book author required")
	ErrBookPriceInvalid   = errors.New("book price invalid")
	ErrBookRatingInvalid  = errors.New("book rating invalid")
	ErrBookInUse          = errors.New("book referenced by cart entries")
)

// 购物车与结算错误
var (
	ErrCartEntryNotFound       = fmt.Errorf("cart entry %w", ErrNotFound)
	ErrOrderNotFound           = fmt.Errorf("order %w", ErrNotFound)
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrUnsupportedPaymentMode  = errors.New("unsupported payment mode")
	ErrShippingInfoInvalid     = errors.New("shipping info invalid")
	ErrGuestCheckoutNotAllowed = errors.New("guest checkout not allowed")
	ErrOrderTotalOutOfRange    = errors.New("order total out of range")
)

// storageError 包装底层存储错误，调用方只看到 ErrStorageFailure
type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *storageError) Unwrap() error {
	return e.err
}

func (e *storageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// wrapStorage 将非领域错误归类为存储失败，领域错误原样返回
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	return &storageError{op: op, err: err}
}

var domainErrors = []error{
	ErrNotFound,
	ErrUnauthenticated,
	ErrInvalidCredentials,
	ErrInvalidEmail,
	ErrDuplicateEmail,
	ErrWeakPassword,
	ErrUserDisabled,
	ErrSessionInvalid,
	ErrSessionRevoked,
	ErrBookNameRequired,
	ErrBookAuthorRequired,
	ErrBookPriceInvalid,
	ErrBookRatingInvalid,
	ErrBookInUse,
	ErrInvalidQuantity,
	ErrEmptyCart,
	ErrUnsupportedPaymentMode,
	ErrShippingInfoInvalid,
	ErrGuestCheckoutNotAllowed,
	ErrOrderTotalOutOfRange,
	ErrStorageFailure,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
