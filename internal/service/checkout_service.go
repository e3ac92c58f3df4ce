package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bookcart/internal/constants"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/queue"
	"github.com/bookcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingInfo 收货信息
type ShippingInfo struct {
	Name    string `json:"name" form:"name"`
	Address string `json:"address" form:"address"`
	Phone   string `json:"phone" form:"phone"`
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	Shipping    ShippingInfo
	PaymentMode string
	Locale      string
}

// OrderListResult 订单列表结果
type OrderListResult struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// CheckoutService 结算服务
type CheckoutService struct {
	cartRepo     repository.CartRepository
	orderRepo    repository.OrderRepository
	queueClient  *queue.Client
	paymentModes map[string]struct{}
}

// NewCheckoutService 创建结算服务，paymentModes 为当前启用的支付方式
func NewCheckoutService(cartRepo repository.CartRepository, orderRepo repository.OrderRepository, queueClient *queue.Client, paymentModes []string) *CheckoutService {
	enabled := make(map[string]struct{}, len(paymentModes))
	for _, mode := range paymentModes {
		mode = strings.ToLower(strings.TrimSpace(mode))
		if constants.IsKnownPaymentMode(mode) {
			enabled[mode] = struct{}{}
		}
	}
	if len(enabled) == 0 {
		enabled[constants.PaymentModeCOD] = struct{}{}
	}
	return &CheckoutService{
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		queueClient:  queueClient,
		paymentModes: enabled,
	}
}

// PaymentModes 返回启用的支付方式，顺序与已知列表一致
func (s *CheckoutService) PaymentModes() []string {
	modes := make([]string, 0, len(s.paymentModes))
	for _, mode := range constants.KnownPaymentModes {
		if _, ok := s.paymentModes[mode]; ok {
			modes = append(modes, mode)
		}
	}
	return modes
}

// Checkout 将购物车转为订单并清空已结算条目，整体在单个事务内完成
func (s *CheckoutService) Checkout(ctx context.Context, sess *SessionContext, input CheckoutInput) (*models.Order, error) {
	if sess == nil || sess.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if sess.Guest {
		return nil, ErrGuestCheckoutNotAllowed
	}
	mode := strings.ToLower(strings.TrimSpace(input.PaymentMode))
	shipping := ShippingInfo{
		Name:    strings.TrimSpace(input.Shipping.Name),
		Address: strings.TrimSpace(input.Shipping.Address),
		Phone:   strings.TrimSpace(input.Shipping.Phone),
	}

	var order *models.Order
	err := s.orderRepo.Transaction(ctx, func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)
		lines, err := carts.LockLines(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		if _, ok := s.paymentModes[mode]; !ok {
			return ErrUnsupportedPaymentMode
		}
		if shipping.Name == "" || shipping.Address == "" || shipping.Phone == "" {
			return ErrShippingInfoInvalid
		}

		now := time.Now()
		total := models.NewMoneyFromDecimal(decimal.Zero)
		items := make([]models.OrderItem, 0, len(lines))
		entryIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			lineTotal := line.Price.Times(line.Quantity)
			items = append(items, models.OrderItem{
				BookID:     line.BookID,
				BookName:   line.Name,
				BookAuthor: line.Author,
				UnitPrice:  line.Price,
				Quantity:   line.Quantity,
				TotalPrice: lineTotal,
				CreatedAt:  now,
			})
			total = total.Plus(lineTotal)
			entryIDs = append(entryIDs, line.EntryID)
		}
		if !total.Storable() {
			return ErrOrderTotalOutOfRange
		}

		created := &models.Order{
			OrderNo:         generateOrderNo(),
			UserID:          sess.UserID,
			Status:          models.OrderStatusConfirmed,
			PaymentMode:     mode,
			ShippingName:    shipping.Name,
			ShippingAddress: shipping.Address,
			ShippingPhone:   shipping.Phone,
			TotalAmount:     total,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.orderRepo.WithTx(tx).Create(ctx, created, items); err != nil {
			return err
		}
		removed, err := carts.DeleteEntries(ctx, sess.UserID, entryIDs)
		if err != nil {
			return err
		}
		if removed != int64(len(entryIDs)) {
			return fmt.Errorf("cart changed during checkout: expected %d entries, removed %d", len(entryIDs), removed)
		}
		created.Items = items
		order = created
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			logger.Ctx(ctx).Errorw("checkout_failed", "user_id", sess.UserID, "error", err)
		}
		return nil, wrapStorage("checkout", err)
	}

	logger.Ctx(ctx).Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"payment_mode", order.PaymentMode,
		"total", order.TotalAmount.String(),
	)
	s.enqueueConfirmation(ctx, order, input.Locale)
	return order, nil
}

func (s *CheckoutService) enqueueConfirmation(ctx context.Context, order *models.Order, locale string) {
	if s.queueClient == nil {
		return
	}
	err := s.queueClient.EnqueueOrderConfirmationEmail(queue.OrderConfirmationEmailPayload{
		OrderID: order.ID,
		OrderNo: order.OrderNo,
		Locale:  locale,
	})
	if err != nil {
		logger.Ctx(ctx).Errorw("order_enqueue_confirmation_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

// GetOrder 按订单号获取当前用户的订单
func (s *CheckoutService) GetOrder(ctx context.Context, sess *SessionContext, orderNo string) (*models.Order, error) {
	if sess == nil || sess.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNoAndUser(ctx, orderNo, sess.UserID)
	if err != nil {
		return nil, wrapStorage("get order", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 分页列出当前用户的订单，按创建时间倒序
func (s *CheckoutService) ListOrders(ctx context.Context, sess *SessionContext, page, pageSize int) (*OrderListResult, error) {
	if sess == nil || sess.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	orders, total, err := s.orderRepo.ListByUser(ctx, repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   sess.UserID,
	})
	if err != nil {
		return nil, wrapStorage("list orders", err)
	}
	return &OrderListResult{Orders: orders, Total: total}, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("BC%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
