package queue

import (
	"encoding/json"

	"github.com/calzado-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusChanged 订单状态变更通知任务
	TaskOrderStatusChanged = constants.TaskOrderStatusChanged
	// TaskStockLowCheck 低库存检查任务
	TaskStockLowCheck = constants.TaskStockLowCheck
)

// OrderStatusChangedPayload 订单状态变更任务载荷
type OrderStatusChangedPayload struct {
	OrderID    uint   `json:"order_id"`
	FromStatus string `json:"from_status"`
	Status     string `json:"status"`
}

// StockLowCheckPayload 低库存检查任务载荷
type StockLowCheckPayload struct {
	ProductID uint   `json:"product_id"`
	Size      string `json:"size"`
}

// NewOrderStatusChangedTask 创建订单状态变更任务
func NewOrderStatusChangedTask(payload OrderStatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusChanged, body), nil
}

// NewStockLowCheckTask 创建低库存检查任务
func NewStockLowCheckTask(payload StockLowCheckPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockLowCheck, body), nil
}

// ParseOrderStatusChanged 解析订单状态变更载荷
func ParseOrderStatusChanged(task *asynq.Task) (OrderStatusChangedPayload, error) {
	var payload OrderStatusChangedPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// ParseStockLowCheck 解析低库存检查载荷
func ParseStockLowCheck(task *asynq.Task) (StockLowCheckPayload, error) {
	var payload StockLowCheckPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
