package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/calzado-next/internal/constants"
	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestPlaceOrderPromoExample(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	product := env.createProduct(t, "Runner", "100", "80", map[string]int{"42": 2})

	if _, err := env.cart.AddItem(ctx, user.ID, product.ID, "42", 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cartTotal, err := env.cart.CalculateTotal(ctx, user.ID)
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}

	phone := " 600123123 "
	order, err := env.orders.PlaceOrder(ctx, PlaceOrderInput{
		UserID:          user.ID,
		ShippingAddress: "Calle Mayor 1, Madrid",
		ContactPhone:    &phone,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pendiente got %s", order.Status)
	}
	if order.OrderNo == "" {
		t.Fatalf("expected generated order number")
	}
	if order.ContactPhone == nil || *order.ContactPhone != "600123123" {
		t.Fatalf("phone not trimmed: %v", order.ContactPhone)
	}
	if order.Total.String() != "160.00" || !order.Total.Decimal.Equal(cartTotal) {
		t.Fatalf("order total want %s got %s", cartTotal.StringFixed(2), order.Total.String())
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected one line item, got %d", len(order.Items))
	}
	line := order.Items[0]
	if line.UnitPrice.String() != "80.00" || line.Quantity != 2 || line.ProductName != "Runner" {
		t.Fatalf("unexpected line item: %+v", line)
	}

	sum := decimal.Zero
	stored, err := env.orders.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	for _, item := range stored.Items {
		sum = sum.Add(item.Subtotal.Decimal)
	}
	if !sum.Equal(stored.Total.Decimal) {
		t.Fatalf("line subtotals %s must equal total %s", sum.StringFixed(2), stored.Total.String())
	}

	if got := env.mustStock(t, product.ID, "42"); got != 0 {
		t.Fatalf("stock want 0 got %d", got)
	}
	view, err := env.cart.GetCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("cart must be cleared after checkout")
	}
}

func TestPlaceOrderRejectsInvalidCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 1})

	_, err := env.orders.PlaceOrder(ctx, PlaceOrderInput{UserID: user.ID, ShippingAddress: "x"})
	if !errors.Is(err, ErrCartInvalid) {
		t.Fatalf("empty cart want ErrCartInvalid, got %v", err)
	}

	if _, err := env.cart.AddItem(ctx, user.ID, product.ID, "42", 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	_, err = env.orders.PlaceOrder(ctx, PlaceOrderInput{UserID: user.ID, ShippingAddress: "x"})
	var invalid *CartInvalidError
	if !errors.As(err, &invalid) || len(invalid.Errors) != 1 {
		t.Fatalf("want itemized CartInvalidError, got %v", err)
	}
	if got := env.mustStock(t, product.ID, "42"); got != 1 {
		t.Fatalf("rejected checkout must not touch stock, got %d", got)
	}

	_, err = env.orders.PlaceOrder(ctx, PlaceOrderInput{UserID: user.ID, ShippingAddress: "  "})
	if !errors.Is(err, ErrShippingAddressMissing) || !errors.Is(err, ErrValidation) {
		t.Fatalf("blank address want validation error, got %v", err)
	}
}

func TestPlaceOrderDetectsStockChangedInsideTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 1})

	if _, err := env.cart.AddItem(ctx, user.ID, product.ID, "42", 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	validation, err := env.cart.Validate(ctx, user.ID)
	if err != nil || !validation.Valid {
		t.Fatalf("cart should be valid before the race, err=%v", err)
	}
	// 校验通过后库存被其他结算抢占
	if err := env.stock.SetStock(ctx, product.ID, "42", 0); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}

	err = env.tx.Run(ctx, "place_order", func(ctx context.Context, tx *gorm.DB) error {
		_, err := env.orders.placeOrderTx(ctx, tx, PlaceOrderInput{UserID: user.ID, ShippingAddress: "x"})
		return err
	})
	if !errors.Is(err, ErrStockChanged) {
		t.Fatalf("want ErrStockChanged, got %v", err)
	}
	var changed *StockChangedError
	if !errors.As(err, &changed) || len(changed.Details) == 0 {
		t.Fatalf("want StockChangedError with details, got %v", err)
	}

	var orders int64
	if err := env.db.Model(&models.Order{}).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != 0 {
		t.Fatalf("rollback must leave no order, got %d", orders)
	}
	view, err := env.cart.GetCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("rollback must keep the cart, got %d items", len(view.Items))
	}
}

// shrinkingStockRepo 在条件扣减前把库存改为 remaining，模拟复核之后被并发结算抢走
type shrinkingStockRepo struct {
	repository.SizeStockRepository
	remaining int
}

func (r *shrinkingStockRepo) WithTx(tx *gorm.DB) repository.SizeStockRepository {
	return &shrinkingStockRepo{SizeStockRepository: r.SizeStockRepository.WithTx(tx), remaining: r.remaining}
}

func (r *shrinkingStockRepo) Decrement(ctx context.Context, productID uint, size string, quantity int) (int64, error) {
	if err := r.SizeStockRepository.Upsert(ctx, productID, size, r.remaining); err != nil {
		return 0, err
	}
	return r.SizeStockRepository.Decrement(ctx, productID, size, quantity)
}

func TestPlaceOrderGuardedDecrementReportsRealAvailability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 2})
	if _, err := env.cart.AddItem(ctx, user.ID, product.ID, "42", 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	stockRepo := repository.NewSizeStockRepository(env.db)
	productRepo := repository.NewProductRepository(env.db)
	orders := NewOrderService(OrderServiceOptions{
		TxRunner:    env.tx,
		OrderRepo:   repository.NewOrderRepository(env.db),
		CartRepo:    repository.NewCartRepository(env.db),
		ProductRepo: productRepo,
		StockRepo:   stockRepo,
		Cart:        env.cart,
		Stock:       NewStockService(env.tx, &shrinkingStockRepo{SizeStockRepository: stockRepo, remaining: 1}, productRepo),
	})

	_, err := orders.PlaceOrder(ctx, PlaceOrderInput{UserID: user.ID, ShippingAddress: "x"})
	if !errors.Is(err, ErrStockChanged) || !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want StockChanged wrapping InsufficientStock, got %v", err)
	}
	var changed *StockChangedError
	if !errors.As(err, &changed) || len(changed.Details) != 1 {
		t.Fatalf("want one detail, got %v", err)
	}
	if want := "Runner (size 42): insufficient stock, available: 1"; changed.Details[0] != want {
		t.Fatalf("detail want %q got %q", want, changed.Details[0])
	}
	var shortage *InsufficientStockError
	if !errors.As(err, &shortage) || shortage.Available != 1 || shortage.Requested != 2 {
		t.Fatalf("unexpected shortage: %+v", shortage)
	}

	if got := env.mustStock(t, product.ID, "42"); got != 2 {
		t.Fatalf("rollback must restore stock, got %d", got)
	}
	var count int64
	if err := env.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("rollback must leave no order, got %d", count)
	}
}

// racingStockRepo 在结算前校验读取库存后，先让另一位买家完成结算
type racingStockRepo struct {
	repository.SizeStockRepository
	once   sync.Once
	before func()
}

func (r *racingStockRepo) ListByProducts(ctx context.Context, productIDs []uint) ([]models.SizeStock, error) {
	rows, err := r.SizeStockRepository.ListByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	r.once.Do(r.before)
	return rows, nil
}

func TestPlaceOrderLoserAfterValidationGetsStockChanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	winner := env.createUser(t, "ana@example.com")
	loser := env.createUser(t, "luis@example.com")
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 1})
	for _, userID := range []uint{winner.ID, loser.ID} {
		if _, err := env.cart.AddItem(ctx, userID, product.ID, "42", 1); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	var winnerErr error
	cartRepo := repository.NewCartRepository(env.db)
	productRepo := repository.NewProductRepository(env.db)
	racing := &racingStockRepo{
		SizeStockRepository: repository.NewSizeStockRepository(env.db),
		before: func() {
			_, winnerErr = env.orders.PlaceOrder(ctx, PlaceOrderInput{UserID: winner.ID, ShippingAddress: "x"})
		},
	}
	orders := NewOrderService(OrderServiceOptions{
		TxRunner:    env.tx,
		OrderRepo:   repository.NewOrderRepository(env.db),
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		StockRepo:   repository.NewSizeStockRepository(env.db),
		Cart:        NewCartService(env.tx, cartRepo, productRepo, racing),
		Stock:       env.stock,
	})

	_, err := orders.PlaceOrder(ctx, PlaceOrderInput{UserID: loser.ID, ShippingAddress: "x"})
	if winnerErr != nil {
		t.Fatalf("winner checkout failed: %v", winnerErr)
	}
	if !errors.Is(err, ErrStockChanged) || errors.Is(err, ErrCartInvalid) {
		t.Fatalf("loser want ErrStockChanged, got %v", err)
	}
	var changed *StockChangedError
	if !errors.As(err, &changed) || len(changed.Details) != 1 ||
		changed.Details[0] != "Runner (size 42): insufficient stock, available: 0" {
		t.Fatalf("unexpected details: %v", err)
	}
	if got := env.mustStock(t, product.ID, "42"); got != 0 {
		t.Fatalf("final stock want 0 got %d", got)
	}
	view, err := env.cart.GetCart(ctx, loser.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("loser cart must be kept, got %d items", len(view.Items))
	}
}

func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 1})

	const buyers = 4
	userIDs := make([]uint, 0, buyers)
	for i := 0; i < buyers; i++ {
		user := env.createUser(t, "buyer"+string(rune('a'+i))+"@example.com")
		if _, err := env.cart.AddItem(ctx, user.ID, product.ID, "42", 1); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		userIDs = append(userIDs, user.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = env.orders.PlaceOrder(ctx, PlaceOrderInput{UserID: userID, ShippingAddress: "x"})
		}(i, userID)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrStockChanged), errors.Is(err, ErrCartInvalid):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("exactly one checkout must win, got %d", success)
	}
	if got := env.mustStock(t, product.ID, "42"); got != 0 {
		t.Fatalf("final stock want 0 got %d", got)
	}
}

func TestOrderStatusMachine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana@example.com")
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 3})
	order := placeOne(t, env, user.ID, product.ID, "42", 2)

	if _, err := env.orders.UpdateStatus(ctx, order.ID, "perdido"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("unknown status want ErrInvalidStatus, got %v", err)
	}
	if _, err := env.orders.UpdateStatus(ctx, 9999, constants.OrderStatusShipped); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound, got %v", err)
	}

	updated, err := env.orders.UpdateStatus(ctx, order.ID, " Enviado ")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("status want enviado got %s", updated.Status)
	}
	// 非终态之间允许回退
	if _, err := env.orders.UpdateStatus(ctx, order.ID, constants.OrderStatusProcessing); err != nil {
		t.Fatalf("non-terminal move failed: %v", err)
	}
	if _, err := env.orders.UpdateStatus(ctx, order.ID, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if _, err := env.orders.UpdateStatus(ctx, order.ID, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("same status must be a no-op, got %v", err)
	}
	if _, err := env.orders.UpdateStatus(ctx, order.ID, constants.OrderStatusCanceled); !errors.Is(err, ErrOrderStatusTerminal) {
		t.Fatalf("cancel after delivery want ErrOrderStatusTerminal, got %v", err)
	}
	if got := env.mustStock(t, product.ID, "42"); got != 1 {
		t.Fatalf("delivered order keeps stock consumed, got %d", got)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "ana@example.com")
	other := env.createUser(t, "luis@example.com")
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 3})
	order := placeOne(t, env, owner.ID, product.ID, "42", 2)

	if _, err := env.orders.CancelOrder(ctx, other.ID, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign cancel want not found, got %v", err)
	}
	canceled, err := env.orders.CancelOrder(ctx, owner.ID, order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled || canceled.CanceledAt == nil {
		t.Fatalf("unexpected canceled order: %+v", canceled)
	}
	if got := env.mustStock(t, product.ID, "42"); got != 3 {
		t.Fatalf("stock want 3 after cancel got %d", got)
	}
	if _, err := env.orders.UpdateStatus(ctx, order.ID, constants.OrderStatusPending); !errors.Is(err, ErrOrderStatusTerminal) {
		t.Fatalf("canceled order must be terminal, got %v", err)
	}

	second := placeOne(t, env, owner.ID, product.ID, "42", 1)
	if _, err := env.orders.UpdateStatus(ctx, second.ID, constants.OrderStatusProcessing); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := env.orders.CancelOrder(ctx, owner.ID, second.ID); !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("customer cancel after processing want ErrOrderCancelNotAllowed, got %v", err)
	}
}

func TestListOrdersScopesByUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.createUser(t, "ana@example.com")
	luis := env.createUser(t, "luis@example.com")
	product := env.createProduct(t, "Runner", "100", "", map[string]int{"42": 5})
	placeOne(t, env, ana.ID, product.ID, "42", 1)
	placeOne(t, env, luis.ID, product.ID, "42", 1)

	orders, total, err := env.orders.ListOrders(ctx, OrderListInput{UserID: ana.ID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].UserID != ana.ID {
		t.Fatalf("expected only ana's order, got total=%d", total)
	}
	if _, _, err := env.orders.ListOrders(ctx, OrderListInput{Status: "raro"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("unknown status filter want ErrInvalidStatus, got %v", err)
	}
}

func placeOne(t *testing.T, env *testEnv, userID, productID uint, size string, qty int) *models.Order {
	t.Helper()
	ctx := context.Background()
	if _, err := env.cart.AddItem(ctx, userID, productID, size, qty); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := env.orders.PlaceOrder(ctx, PlaceOrderInput{UserID: userID, ShippingAddress: "Calle 1"})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return order
}
