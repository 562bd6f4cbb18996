package queue

import (
	"encoding/json"

	"github.com/ordertrack/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderCreatedSMS 下单短信通知任务
	TaskOrderCreatedSMS = constants.TaskOrderCreatedSMS
)

// OrderCreatedSMSPayload 下单短信通知任务载荷
type OrderCreatedSMSPayload struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Phone       string `json:"phone"`
}

// NewOrderCreatedSMSTask 创建下单短信通知任务
func NewOrderCreatedSMSTask(payload OrderCreatedSMSPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderCreatedSMS, body), nil
}
