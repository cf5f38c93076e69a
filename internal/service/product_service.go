package service

import (
	"context"
	"strings"

	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService 商品目录管理
type ProductService struct {
	tx           *TxRunner
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.SizeStockRepository
	cartRepo     repository.CartRepository
}

// NewProductService 创建商品服务
func NewProductService(tx *TxRunner, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, stockRepo repository.SizeStockRepository, cartRepo repository.CartRepository) *ProductService {
	return &ProductService{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		cartRepo:     cartRepo,
	}
}

// SizeStockInput 尺码库存输入
type SizeStockInput struct {
	Size     string
	Quantity int
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID       uint
	Name             string
	Description      string
	Brand            string
	Price            decimal.Decimal
	PromoPrice       *decimal.Decimal
	Active           *bool
	Featured         bool
	Image            string
	AdditionalImages []string
	Features         []string
	SortOrder        int
	Sizes            []SizeStockInput
}

// ProductListInput 商品列表查询
type ProductListInput struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	Featured   *bool
	OnlyActive bool
}

// ProductView 商品展示（附带生效价格、折扣与总库存）
type ProductView struct {
	*models.Product
	EffectivePrice  models.Money `json:"precio_efectivo"`
	DiscountPercent int          `json:"descuento"`
	TotalStock      int          `json:"stock_total"`
}

// BuildProductView 组装商品展示
func BuildProductView(product *models.Product) ProductView {
	total := 0
	for _, size := range product.Sizes {
		total += size.Quantity
	}
	return ProductView{
		Product:         product,
		EffectivePrice:  models.NewMoneyFromDecimal(EffectivePrice(product)),
		DiscountPercent: DiscountPercent(product),
		TotalStock:      total,
	}
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, input ProductListInput) ([]models.Product, int64, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	products, total, err := s.productRepo.List(ctx, repository.ProductListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		CategoryID: input.CategoryID,
		Search:     input.Search,
		Featured:   input.Featured,
		OnlyActive: input.OnlyActive,
		WithSizes:  true,
	})
	if err != nil {
		return nil, 0, internalError("product_list", err)
	}
	return products, total, nil
}

// Get 商品详情；onlyActive 时下架商品视为不存在
func (s *ProductService) Get(ctx context.Context, id uint, onlyActive bool) (*models.Product, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internalError("product_get", err)
	}
	if product == nil || (onlyActive && !product.Active) {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品及初始尺码库存
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{Active: true}
	if err := s.apply(ctx, product, input); err != nil {
		return nil, err
	}
	err := s.tx.Run(ctx, "product_create", func(ctx context.Context, tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(ctx, product); err != nil {
			return err
		}
		return s.upsertSizes(ctx, tx, product.ID, input.Sizes)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID, false)
}

// Update 更新商品；Sizes 非空时覆盖对应尺码库存
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, product, input); err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, "product_update", func(ctx context.Context, tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Update(ctx, product); err != nil {
			return err
		}
		return s.upsertSizes(ctx, tx, product.ID, input.Sizes)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id, false)
}

// Deactivate 下架商品：保留记录与历史订单引用，购物车中的条目不再计价
func (s *ProductService) Deactivate(ctx context.Context, id uint) error {
	affected, err := s.productRepo.SetActive(ctx, id, false)
	if err != nil {
		return internalError("product_deactivate", err)
	}
	if affected == 0 {
		if _, err := s.Get(ctx, id, false); err != nil {
			return err
		}
	}
	return nil
}

// Purge 物理删除商品，连同尺码库存与购物车条目；订单项快照保留
func (s *ProductService) Purge(ctx context.Context, id uint) error {
	return s.tx.Run(ctx, "product_purge", func(ctx context.Context, tx *gorm.DB) error {
		if err := s.cartRepo.WithTx(tx).DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := s.stockRepo.WithTx(tx).DeleteByProduct(ctx, id); err != nil {
			return err
		}
		affected, err := s.productRepo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func (s *ProductService) apply(ctx context.Context, product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price.IsNegative() {
		return ErrProductInvalid
	}
	if input.PromoPrice != nil && !input.PromoPrice.IsPositive() {
		return ErrPromoPriceInvalid
	}
	for _, size := range input.Sizes {
		if size.Quantity < 0 {
			return ErrStockQuantityInvalid
		}
	}
	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return internalError("product_category", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	product.CategoryID = category.ID
	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Brand = strings.TrimSpace(input.Brand)
	product.Price = models.NewMoneyFromDecimal(input.Price)
	product.PromoPrice = nil
	if input.PromoPrice != nil {
		promo := models.NewMoneyFromDecimal(*input.PromoPrice)
		product.PromoPrice = &promo
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	product.Featured = input.Featured
	product.Image = strings.TrimSpace(input.Image)
	product.AdditionalImages = models.StringArray(input.AdditionalImages)
	product.Features = models.StringArray(input.Features)
	product.SortOrder = input.SortOrder
	product.Category = nil
	product.Sizes = nil
	return nil
}

func (s *ProductService) upsertSizes(ctx context.Context, tx *gorm.DB, productID uint, sizes []SizeStockInput) error {
	stockRepo := s.stockRepo.WithTx(tx)
	for _, size := range sizes {
		if err := stockRepo.Upsert(ctx, productID, NormalizeSize(size.Size), size.Quantity); err != nil {
			return err
		}
	}
	return nil
}
