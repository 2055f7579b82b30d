package worker

import (
	"context"
	"encoding/json"

	"github.com/tokoline/tokoline/internal/logger"
	"github.com/tokoline/tokoline/internal/provider"
	"github.com/tokoline/tokoline/internal/queue"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSuperAdminCode, c.handleSuperAdminCodeEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleSuperAdminCodeEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.SuperAdminCodePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_superadmin_code_unmarshal_failed", "error", err)
		return err
	}
	if payload.Email == "" || payload.Code == "" {
		logger.Debugw("worker_superadmin_code_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}

	accountName := ""
	if payload.UserID != 0 {
		user, err := c.UserRepo.GetByID(payload.UserID)
		if err != nil {
			logger.Warnw("worker_superadmin_code_fetch_user_failed", "user_id", payload.UserID, "error", err)
			return err
		}
		if user != nil {
			accountName = user.Name
		}
	}

	expireMinutes := c.Config.Auth.SuperAdmin.CodeExpireMinutes
	if expireMinutes <= 0 {
		expireMinutes = 10
	}
	if err := c.EmailService.SendSuperAdminCode(payload.Email, accountName, payload.Code, expireMinutes); err != nil {
		logger.Warnw("worker_superadmin_code_send_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	logger.Infow("worker_superadmin_code_sent", "user_id", payload.UserID)
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if order.CustomerEmail == "" {
		logger.Debugw("worker_order_status_email_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}

	status := payload.Status
	if status == "" {
		status = order.Status
	}
	err = c.EmailService.SendOrderStatusEmail(order.CustomerEmail, service.OrderStatusEmailInput{
		OrderNo:        order.OrderNo,
		Status:         status,
		Amount:         order.TotalAmount,
		TrackingNumber: order.TrackingNumber,
	})
	if err != nil {
		logger.Warnw("worker_order_status_email_send_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("worker_order_status_email_sent", "order_id", order.ID, "order_no", order.OrderNo, "status", status)
	return nil
}
