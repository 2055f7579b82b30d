package queue

import (
	"encoding/json"

	"github.com/tokoline/tokoline/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSuperAdminCode 超级管理员登录验证码邮件任务
	TaskSuperAdminCode = constants.TaskSuperAdminCode
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
)

// SuperAdminCodePayload 超级管理员验证码邮件任务载荷
type SuperAdminCodePayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Code   string `json:"code"`
}

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewSuperAdminCodeTask 创建超级管理员验证码邮件任务
func NewSuperAdminCodeTask(payload SuperAdminCodePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSuperAdminCode, body), nil
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}
