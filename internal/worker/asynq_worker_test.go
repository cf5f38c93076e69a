package worker

import (
	"context"
	"testing"

	"github.com/calzado-next/internal/config"
	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/provider"
	"github.com/calzado-next/internal/queue"
	"github.com/calzado-next/internal/testutil"

	"github.com/hibiken/asynq"
)

func newTestConsumer(t *testing.T) *Consumer {
	t.Helper()
	db := testutil.OpenDB(t)
	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "worker-secret"},
		Order:   config.OrderConfig{LowStockThreshold: 2, LowStockAlertTTLSeconds: 60},
	}
	c, err := provider.NewContainer(cfg, db)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	t.Cleanup(c.Close)
	return NewConsumer(c)
}

func seedStock(t *testing.T, c *Consumer, size string, quantity int) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Botas", Slug: "botas", Active: true}
	if err := c.DB.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := &models.Product{CategoryID: category.ID, Name: "Bota", Active: true}
	if err := c.DB.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := c.StockService.SetStock(context.Background(), product.ID, size, quantity); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	return product
}

func TestCheckLowStock(t *testing.T) {
	c := newTestConsumer(t)
	ctx := context.Background()
	product := seedStock(t, c, "40", 1)

	alerted, err := c.CheckLowStock(ctx, product.ID, " 40 ")
	if err != nil {
		t.Fatalf("check low stock failed: %v", err)
	}
	if !alerted {
		t.Fatalf("stock 1 under threshold 2 should alert")
	}

	if err := c.StockService.SetStock(ctx, product.ID, "40", 10); err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	alerted, err = c.CheckLowStock(ctx, product.ID, "40")
	if err != nil {
		t.Fatalf("check low stock failed: %v", err)
	}
	if alerted {
		t.Fatalf("restocked size should not alert")
	}

	if alerted, err := c.CheckLowStock(ctx, 0, "40"); err != nil || alerted {
		t.Fatalf("zero product id should be skipped, got %v %v", alerted, err)
	}
}

func TestNotifyOrderStatusChangedSkipsMissingOrder(t *testing.T) {
	c := newTestConsumer(t)
	ctx := context.Background()

	if err := c.NotifyOrderStatusChanged(ctx, queue.OrderStatusChangedPayload{}); err != nil {
		t.Fatalf("empty payload should be skipped, got %v", err)
	}
	if err := c.NotifyOrderStatusChanged(ctx, queue.OrderStatusChangedPayload{OrderID: 404, Status: "enviado"}); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
}

func TestNotifyOrderStatusChanged(t *testing.T) {
	c := newTestConsumer(t)
	user := &models.User{Email: "cliente@example.com", PasswordHash: "x", Status: "active"}
	if err := c.DB.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := &models.Order{OrderNo: "CZ20260101000000000001", UserID: user.ID, Status: "enviado", ShippingAddress: "Calle 3"}
	if err := c.DB.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	err := c.NotifyOrderStatusChanged(context.Background(), queue.OrderStatusChangedPayload{
		OrderID:    order.ID,
		FromStatus: "procesando",
		Status:     "enviado",
	})
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}
}

func TestHandlersRejectMalformedPayload(t *testing.T) {
	c := newTestConsumer(t)
	ctx := context.Background()
	bad := []byte("{not-json")

	if err := c.handleOrderStatusChanged(ctx, asynq.NewTask(queue.TaskOrderStatusChanged, bad)); err == nil {
		t.Fatalf("malformed order payload should fail")
	}
	if err := c.handleStockLowCheck(ctx, asynq.NewTask(queue.TaskStockLowCheck, bad)); err == nil {
		t.Fatalf("malformed stock payload should fail")
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}); err == nil {
		t.Fatalf("disabled queue should fail")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should fail")
	}
}
