package worker

import (
	"context"
	"strings"

	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/provider"
	"github.com/bookcart/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
}

func (c *Consumer) handleOrderConfirmationEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmation_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderConfirmationEmailPayload(task)
	if err != nil {
		logger.Warnw("worker_order_confirmation_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmation_email_skip_invalid_payload", "order_no", payload.OrderNo)
		return nil
	}
	order, err := c.OrderRepo.GetByID(ctx, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_confirmation_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_confirmation_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	user, err := c.UserRepo.GetByID(ctx, order.UserID)
	if err != nil {
		logger.Warnw("worker_order_confirmation_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	receiver := resolveReceiver(user)
	if receiver == "" {
		logger.Debugw("worker_order_confirmation_email_skip_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if !c.EmailService.Enabled() {
		logger.Debugw("worker_order_confirmation_email_skip_disabled", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if err := c.EmailService.SendOrderConfirmation(receiver, order, payload.Locale); err != nil {
		logger.Warnw("worker_order_confirmation_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", receiver,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_order_confirmation_email_sent", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}

// resolveReceiver 访客占位邮箱与已删除账号不发送
func resolveReceiver(user *models.User) string {
	if user == nil || user.IsGuest() {
		return ""
	}
	return strings.TrimSpace(user.Email)
}
