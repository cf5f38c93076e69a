package worker

import (
	"context"
	"errors"
	"time"

	"github.com/calzado-next/internal/logger"
	"github.com/calzado-next/internal/provider"
	"github.com/calzado-next/internal/queue"
	"github.com/calzado-next/internal/service"

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
	mux.HandleFunc(queue.TaskOrderStatusChanged, c.handleOrderStatusChanged)
	mux.HandleFunc(queue.TaskStockLowCheck, c.handleStockLowCheck)
}

func (c *Consumer) handleOrderStatusChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_changed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderStatusChanged(task)
	if err != nil {
		logger.Warnw("worker_order_status_changed_unmarshal_failed", "error", err)
		return err
	}
	return c.NotifyOrderStatusChanged(ctx, payload)
}

// NotifyOrderStatusChanged 记录订单状态变更通知；订单已不存在时跳过
func (c *Consumer) NotifyOrderStatusChanged(ctx context.Context, payload queue.OrderStatusChangedPayload) error {
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_changed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderService.GetOrder(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_status_changed_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_status_changed_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	receiver := ""
	user, err := c.UserRepo.GetByID(ctx, order.UserID)
	if err != nil {
		logger.Warnw("worker_order_status_changed_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	if user != nil {
		receiver = user.Email
	}
	logger.Infow("order_status_notified",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"receiver_email", receiver,
		"from_status", payload.FromStatus,
		"status", payload.Status,
		"current_status", order.Status,
	)
	return nil
}

func (c *Consumer) handleStockLowCheck(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_stock_low_check_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseStockLowCheck(task)
	if err != nil {
		logger.Warnw("worker_stock_low_check_unmarshal_failed", "error", err)
		return err
	}
	_, err = c.CheckLowStock(ctx, payload.ProductID, payload.Size)
	return err
}

// CheckLowStock 检查某尺码库存是否低于阈值，返回本次是否触发告警。
// 告警在 TTL 内去重；库存回升后清除标记。
func (c *Consumer) CheckLowStock(ctx context.Context, productID uint, size string) (bool, error) {
	if productID == 0 {
		logger.Debugw("worker_stock_low_check_skip_invalid_payload", "product_id", productID)
		return false, nil
	}
	size = service.NormalizeSize(size)
	threshold := c.Config.Order.LowStockThreshold
	quantity, err := c.StockService.GetStock(ctx, productID, size)
	if err != nil {
		logger.Warnw("worker_stock_low_check_fetch_failed", "product_id", productID, "size", size, "error", err)
		return false, err
	}
	if quantity > threshold {
		if err := c.Cache.ClearLowStockAlert(ctx, productID, size); err != nil {
			logger.Warnw("worker_stock_low_alert_clear_failed", "product_id", productID, "size", size, "error", err)
		}
		return false, nil
	}
	ttl := time.Duration(c.Config.Order.LowStockAlertTTLSeconds) * time.Second
	fresh, err := c.Cache.MarkLowStockAlert(ctx, productID, size, quantity, ttl)
	if err != nil {
		logger.Warnw("worker_stock_low_alert_mark_failed", "product_id", productID, "size", size, "error", err)
		return false, err
	}
	if !fresh {
		logger.Debugw("worker_stock_low_alert_duplicate", "product_id", productID, "size", size)
		return false, nil
	}
	logger.Warnw("stock_low_alert",
		"product_id", productID,
		"size", size,
		"quantity", quantity,
		"threshold", threshold,
	)
	return true, nil
}
