package service

import (
	"context"
	"testing"
	"time"

	"github.com/calzado-next/internal/config"
	"github.com/calzado-next/internal/constants"
	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/repository"
	"github.com/calzado-next/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	tx        *TxRunner
	stock     *StockService
	cart      *CartService
	orders    *OrderService
	products  *ProductService
	category  *CategoryService
	auth      *UserAuthService
	userAdmin *UserAdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, testutil.OpenDB(t))
}

func newTestEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()
	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
	}

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	stockRepo := repository.NewSizeStockRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	tx := NewTxRunner(db, 5*time.Second)
	stock := NewStockService(tx, stockRepo, productRepo)
	cart := NewCartService(tx, cartRepo, productRepo, stockRepo)
	return &testEnv{
		db:    db,
		cfg:   cfg,
		tx:    tx,
		stock: stock,
		cart:  cart,
		orders: NewOrderService(OrderServiceOptions{
			TxRunner:    tx,
			OrderRepo:   orderRepo,
			CartRepo:    cartRepo,
			ProductRepo: productRepo,
			StockRepo:   stockRepo,
			Cart:        cart,
			Stock:       stock,
		}),
		products:  NewProductService(tx, productRepo, categoryRepo, stockRepo, cartRepo),
		category:  NewCategoryService(categoryRepo),
		auth:      NewUserAuthService(cfg, userRepo, nil),
		userAdmin: NewUserAdminService(tx, userRepo, cartRepo, nil),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Status:       constants.UserStatusActive,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (e *testEnv) createCategory(t *testing.T, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Slug: slug, Name: slug, Active: true}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

// createProduct 创建商品；promo 为空串表示无促销价
func (e *testEnv) createProduct(t *testing.T, name, price, promo string, sizes map[string]int) *models.Product {
	t.Helper()
	category := &models.Category{}
	if err := e.db.Where("slug = ?", "general").FirstOrCreate(category, models.Category{Slug: "general", Name: "General", Active: true}).Error; err != nil {
		t.Fatalf("ensure category failed: %v", err)
	}
	input := ProductInput{
		CategoryID: category.ID,
		Name:       name,
		Brand:      "Andina",
		Price:      decimal.RequireFromString(price),
	}
	if promo != "" {
		p := decimal.RequireFromString(promo)
		input.PromoPrice = &p
	}
	for size, qty := range sizes {
		input.Sizes = append(input.Sizes, SizeStockInput{Size: size, Quantity: qty})
	}
	product, err := e.products.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *testEnv) mustStock(t *testing.T, productID uint, size string) int {
	t.Helper()
	qty, err := e.stock.GetStock(context.Background(), productID, size)
	if err != nil {
		t.Fatalf("get stock failed: %v", err)
	}
	return qty
}
