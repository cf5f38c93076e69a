package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calzado-next/internal/repository"

	"gorm.io/gorm"
)

func TestReadsOutsideTransactionHonorQueryTimeout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 1})
	if _, err := env.cart.AddItem(ctx, user.ID, product.ID, "42", 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	runner := NewTxRunner(env.db, 200*time.Millisecond)
	cartRepo := repository.NewCartRepository(env.db)
	productRepo := repository.NewProductRepository(env.db)
	stockRepo := repository.NewSizeStockRepository(env.db)
	stock := NewStockService(runner, stockRepo, productRepo)
	cart := NewCartService(runner, cartRepo, productRepo, stockRepo)
	orders := NewOrderService(OrderServiceOptions{
		TxRunner:    runner,
		OrderRepo:   repository.NewOrderRepository(env.db),
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		StockRepo:   stockRepo,
		Cart:        cart,
		Stock:       stock,
	})

	// 连接池只有一个连接，被未提交的事务占住
	held := env.db.Begin()
	if held.Error != nil {
		t.Fatalf("begin failed: %v", held.Error)
	}
	defer held.Rollback()

	calls := map[string]func() error{
		"get_cart": func() error {
			_, err := cart.GetCart(ctx, user.ID)
			return err
		},
		"validate": func() error {
			_, err := cart.Validate(ctx, user.ID)
			return err
		},
		"add_item": func() error {
			_, err := cart.AddItem(ctx, user.ID, product.ID, "42", 1)
			return err
		},
		"get_stock": func() error {
			_, err := stock.GetStock(ctx, product.ID, "42")
			return err
		},
		"list_orders": func() error {
			_, _, err := orders.ListOrders(ctx, OrderListInput{UserID: user.ID})
			return err
		},
		"place_order": func() error {
			_, err := orders.PlaceOrder(ctx, PlaceOrderInput{UserID: user.ID, ShippingAddress: "x"})
			return err
		},
	}
	for name, call := range calls {
		started := time.Now()
		err := call()
		if !errors.Is(err, ErrInternal) {
			t.Fatalf("%s: want ErrInternal on timeout, got %v", name, err)
		}
		if elapsed := time.Since(started); elapsed > 3*time.Second {
			t.Fatalf("%s: blocked for %s despite 200ms timeout", name, elapsed)
		}
	}
}

func TestTxRunnerWrapsTimeoutAsInternal(t *testing.T) {
	env := newTestEnv(t)
	runner := NewTxRunner(env.db, 50*time.Millisecond)

	err := runner.Run(context.Background(), "slow_op", func(ctx context.Context, tx *gorm.DB) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("want ErrInternal, got %v", err)
	}

	domain := runner.Run(context.Background(), "rejected_op", func(ctx context.Context, tx *gorm.DB) error {
		return ErrOrderStatusTerminal
	})
	if !errors.Is(domain, ErrOrderStatusTerminal) || errors.Is(domain, ErrInternal) {
		t.Fatalf("domain errors must pass through, got %v", domain)
	}
}
