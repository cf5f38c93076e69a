package service

import (
	"context"
	"errors"
	"testing"

	"github.com/calzado-next/internal/models"
)

func TestStockServiceDecrement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Botín", "100", "", map[string]int{"42": 3})

	if err := env.stock.Decrement(ctx, product.ID, "42", 2); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if got := env.mustStock(t, product.ID, "42"); got != 1 {
		t.Fatalf("stock want 1 got %d", got)
	}

	err := env.stock.Decrement(ctx, product.ID, "42", 2)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want insufficient stock, got %v", err)
	}
	var detail *InsufficientStockError
	if !errors.As(err, &detail) {
		t.Fatalf("want *InsufficientStockError, got %T", err)
	}
	if detail.Available != 1 || detail.Requested != 2 || detail.Size != "42" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if got := env.mustStock(t, product.ID, "42"); got != 1 {
		t.Fatalf("failed decrement must not change stock, got %d", got)
	}

	err = env.stock.Decrement(ctx, product.ID, "44", 1)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("missing size row should be insufficient, got %v", err)
	}
}

func TestStockServiceSetStockAndTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Sandalia", "50", "", nil)

	if err := env.stock.SetStock(ctx, product.ID, "38", 4); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	if err := env.stock.SetStock(ctx, product.ID, " 39 ", 6); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	if err := env.stock.SetStock(ctx, product.ID, "38", 2); err != nil {
		t.Fatalf("overwrite stock failed: %v", err)
	}
	if err := env.stock.SetStock(ctx, product.ID, "38", -1); !errors.Is(err, ErrStockQuantityInvalid) {
		t.Fatalf("negative stock want ErrStockQuantityInvalid, got %v", err)
	}
	if err := env.stock.SetStock(ctx, 9999, "38", 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product want ErrProductNotFound, got %v", err)
	}

	total, err := env.stock.GetTotalStock(ctx, product.ID)
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if total != 8 {
		t.Fatalf("total want 8 got %d", total)
	}
	ok, err := env.stock.HasSufficientStock(ctx, product.ID, "39", 6)
	if err != nil || !ok {
		t.Fatalf("expected sufficient stock, ok=%v err=%v", ok, err)
	}
	ok, err = env.stock.HasSufficientStock(ctx, product.ID, "39", 7)
	if err != nil || ok {
		t.Fatalf("expected insufficient stock, ok=%v err=%v", ok, err)
	}
}

func TestStockServiceIncrementAndLowStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Mocasín", "70", "", map[string]int{models.SizeNone: 1, "41": 10})

	if err := env.stock.Increment(ctx, product.ID, "40", 2); err != nil {
		t.Fatalf("increment new row failed: %v", err)
	}
	if err := env.stock.Increment(ctx, product.ID, "41", 1); err != nil {
		t.Fatalf("increment existing row failed: %v", err)
	}
	if got := env.mustStock(t, product.ID, "41"); got != 11 {
		t.Fatalf("stock want 11 got %d", got)
	}

	rows, total, err := env.stock.ListLowStock(ctx, 2, 1, 20)
	if err != nil {
		t.Fatalf("list low failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 low rows, got total=%d len=%d", total, len(rows))
	}
	if rows[0].Quantity > rows[1].Quantity {
		t.Fatalf("low stock rows must be ascending by quantity")
	}
}
