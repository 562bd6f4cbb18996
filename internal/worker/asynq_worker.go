package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ordertrack/internal/logger"
	"github.com/ordertrack/internal/provider"
	"github.com/ordertrack/internal/queue"

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
	mux.HandleFunc(queue.TaskOrderCreatedSMS, c.handleOrderCreatedSMS)
}

// handleOrderCreatedSMS 下单短信通知
// 短信是尽力而为的旁路通道，跳过无效载荷，发送失败交给 asynq 重试
func (c *Consumer) handleOrderCreatedSMS(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_sms_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderCreatedSMSPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_sms_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderNumber == "" || payload.Phone == "" {
		logger.Debugw("worker_order_sms_skip_invalid_payload",
			"order_id", payload.OrderID,
			"has_phone", payload.Phone != "",
		)
		return nil
	}
	if c.SMSSender == nil {
		logger.Warnw("worker_order_sms_skip_sender_nil", "order_no", payload.OrderNumber)
		return nil
	}

	message := fmt.Sprintf("Your order #%s is now %s", payload.OrderNumber, payload.Status)
	if err := c.SMSSender.Send(ctx, payload.Phone, message); err != nil {
		logger.Warnw("worker_order_sms_send_failed",
			"order_no", payload.OrderNumber,
			"error", err,
		)
		return err
	}
	logger.Debugw("worker_order_sms_sent", "order_no", payload.OrderNumber)
	return nil
}
