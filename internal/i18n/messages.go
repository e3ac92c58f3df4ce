package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"app.welcome": "Welcome to Bookcart",

		"error.bad_request":              "Invalid request",
		"error.internal":                 "Something went wrong, please try again later",
		"error.unauthorized":             "Please log in first",
		"error.forbidden":                "You do not have permission to do this",
		"error.not_found":                "Resource not found",
		"error.storage_failure":          "The request could not be completed, please try again",
		"error.rate_limited":             "Too many attempts, retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter unavailable",
		"error.token_invalid":            "Session is invalid or expired",
		"error.token_revoked":            "Session has ended, please log in again",
		"error.user_disabled":            "This account is disabled",
		"error.email_invalid":            "Please enter a valid email address",
		"error.email_exists":             "An account with this email already exists",
		"error.invalid_credentials":      "Invalid email or password",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_too_long":        "Password must be at most %d bytes",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.captcha_required":         "Please complete the captcha",
		"error.captcha_invalid":          "Captcha is incorrect",
		"error.captcha_config_invalid":   "Captcha is not available",
		"error.book_not_found":           "Book not found",
		"error.book_name_required":       "Book name is required",
		"error.book_author_required":     "Author is required",
		"error.book_price_invalid":       "Price must be a non-negative number within the supported range",
		"error.book_rating_invalid":      "Rating is required and must be a number between 0 and 5",
		"error.book_in_use":              "Book is still in customer carts",
		"error.book_id_invalid":          "Invalid book id",
		"error.cart_entry_not_found":     "Cart item not found",
		"error.cart_entry_id_invalid":    "Invalid cart item id",
		"error.quantity_invalid":         "Quantity must be a positive whole number",
		"error.cart_empty":               "Your cart is empty",
		"error.payment_mode_unsupported": "This payment method is not supported yet, please choose cash on delivery",
		"error.shipping_info_invalid":    "Name, address and phone are required",
		"error.guest_checkout":           "Please log in or register before checkout",
		"error.order_not_found":          "Order not found",
		"error.order_total_out_of_range": "Order total is too large, please reduce quantities",

		"email.order_confirmation.subject": "Order %s confirmed",
		"email.order_confirmation.body":    "Thank you for your order %s.\n\nItems:\n%s\nTotal: %s\nPayment: %s\nShip to: %s, %s (%s)",
	},
	LocaleZH: {
		"app.welcome": "欢迎来到 Bookcart",

		"error.bad_request":              "请求参数错误",
		"error.internal":                 "服务异常，请稍后再试",
		"error.unauthorized":             "请先登录",
		"error.forbidden":                "无权执行该操作",
		"error.not_found":                "资源不存在",
		"error.storage_failure":          "操作未完成，请重试",
		"error.rate_limited":             "尝试次数过多，请 %d 秒后再试",
		"error.rate_limit_unavailable":   "限流服务不可用",
		"error.token_invalid":            "会话无效或已过期",
		"error.token_revoked":            "会话已结束，请重新登录",
		"error.user_disabled":            "账号已被禁用",
		"error.email_invalid":            "邮箱格式不正确",
		"error.email_exists":             "该邮箱已注册",
		"error.invalid_credentials":      "邮箱或密码错误",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_too_long":        "密码长度不能超过 %d 字节",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",
		"error.captcha_required":         "请完成验证码",
		"error.captcha_invalid":          "验证码错误",
		"error.captcha_config_invalid":   "验证码暂不可用",
		"error.book_not_found":           "图书不存在",
		"error.book_name_required":       "书名不能为空",
		"error.book_author_required":     "作者不能为空",
		"error.book_price_invalid":       "价格必须为有效范围内的非负数",
		"error.book_rating_invalid":      "评分为必填项，须为 0 到 5 之间的数字",
		"error.book_in_use":              "图书仍在用户购物车中",
		"error.book_id_invalid":          "图书 ID 无效",
		"error.cart_entry_not_found":     "购物车条目不存在",
		"error.cart_entry_id_invalid":    "购物车条目 ID 无效",
		"error.quantity_invalid":         "数量必须为正整数",
		"error.cart_empty":               "购物车为空",
		"error.payment_mode_unsupported": "暂不支持该支付方式，请选择货到付款",
		"error.shipping_info_invalid":    "收货人、地址和电话均为必填",
		"error.guest_checkout":           "请先登录或注册再结算",
		"error.order_not_found":          "订单不存在",
		"error.order_total_out_of_range": "订单金额过大，请减少购买数量",

		"email.order_confirmation.subject": "订单 %s 已确认",
		"email.order_confirmation.body":    "感谢您的订单 %s。\n\n商品：\n%s\n合计：%s\n支付方式：%s\n收货信息：%s，%s（%s）",
	},
}
