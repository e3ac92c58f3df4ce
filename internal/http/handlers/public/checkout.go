package public

import (
	"strings"

	handlershared "github.com/bookcart/internal/http/handlers/shared"
	"github.com/bookcart/internal/http/response"
	"github.com/bookcart/internal/i18n"
	"github.com/bookcart/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算表单
type CheckoutRequest struct {
	Name        string `json:"name" form:"name"`
	Address     string `json:"address" form:"address"`
	Phone       string `json:"phone" form:"phone"`
	PaymentMode string `json:"payment_mode" form:"payment_mode"`
}

// CheckoutSummary 结算页：购物车汇总与可用支付方式
func (h *Handler) CheckoutSummary(c *gin.Context) {
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}
	view, err := h.CartService.ViewCart(c.Request.Context(), sess)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"cart":          view,
		"payment_modes": h.CheckoutService.PaymentModes(),
		"can_checkout":  sess.IsMember() && len(view.Lines) > 0,
	})
}

// Checkout 提交订单
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}
	order, err := h.CheckoutService.Checkout(c.Request.Context(), sess, service.CheckoutInput{
		Shipping: service.ShippingInfo{
			Name:    req.Name,
			Address: req.Address,
			Phone:   req.Phone,
		},
		PaymentMode: req.PaymentMode,
		Locale:      i18n.ResolveLocale(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":    order,
		"redirect": "/success?order_no=" + order.OrderNo,
	})
}

// Success 下单成功页
func (h *Handler) Success(c *gin.Context) {
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}
	orderNo := strings.TrimSpace(c.Query("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.CheckoutService.GetOrder(c.Request.Context(), sess, orderNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"order": order})
}

// ListOrders 当前用户的订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	sess, ok := handlershared.RequireSession(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ReadPagination(c)
	result, err := h.CheckoutService.ListOrders(c.Request.Context(), sess, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, result.Orders, page, pageSize, result.Total)
}
