package constants

// 支付方式常量，仅货到付款可用，其余为已知但未开通的方式
const (
	PaymentModeCOD        = "cod"
	PaymentModeCard       = "card"
	PaymentModeNetBanking = "net_banking"
	PaymentModeUPI        = "upi"
)

// KnownPaymentModes 结算表单可识别的支付方式
var KnownPaymentModes = []string{
	PaymentModeCOD,
	PaymentModeCard,
	PaymentModeNetBanking,
	PaymentModeUPI,
}

// IsKnownPaymentMode 判断是否为可识别的支付方式
func IsKnownPaymentMode(mode string) bool {
	for _, known := range KnownPaymentModes {
		if known == mode {
			return true
		}
	}
	return false
}

// 图书删除策略
const (
	BookDeletePolicyCascade = "cascade"
	BookDeletePolicyReject  = "reject"
)

// 购物车常量
const (
	// MaxCartQuantity 单个条目数量上限，累加时饱和
	MaxCartQuantity = 1<<31 - 1
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderConfirmationEmail = "order:confirmation_email"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码场景
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 访客占位账号
const (
	GuestEmailDomain = "guest.invalid"
	GuestEmailPrefix = "guest+"
)

// 会话上下文键
const (
	ContextKeySession = "session"
)
