package service

import (
	"context"
	"fmt"

	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxCartItemQuantity 单个购物车项的数量上限
const MaxCartItemQuantity = 99

// CartService 购物车聚合
type CartService struct {
	tx          *TxRunner
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	stockRepo   repository.SizeStockRepository
}

// NewCartService 创建购物车服务
func NewCartService(tx *TxRunner, cartRepo repository.CartRepository, productRepo repository.ProductRepository, stockRepo repository.SizeStockRepository) *CartService {
	return &CartService{
		tx:          tx,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

// WithTx 返回绑定事务的购物车服务
func (s *CartService) WithTx(tx *gorm.DB) *CartService {
	if tx == nil {
		return s
	}
	return &CartService{
		tx:          s.tx,
		cartRepo:    s.cartRepo.WithTx(tx),
		productRepo: s.productRepo.WithTx(tx),
		stockRepo:   s.stockRepo.WithTx(tx),
	}
}

// CartItemView 购物车项展示
type CartItemView struct {
	ID              uint            `json:"id"`
	ProductID       uint            `json:"product_id"`
	Name            string          `json:"nombre"`
	Brand           string          `json:"marca"`
	Image           string          `json:"imagen"`
	Size            string          `json:"talla"`
	Quantity        int             `json:"cantidad"`
	Price           models.Money    `json:"precio"`
	EffectivePrice  models.Money    `json:"precio_efectivo"`
	DiscountPercent int             `json:"descuento"`
	Subtotal        models.Money    `json:"subtotal"`
	AvailableStock  int             `json:"stock_disponible"`
	Available       bool            `json:"disponible"`
	Product         *models.Product `json:"-"`
}

// CartView 购物车展示
type CartView struct {
	Items []CartItemView `json:"items"`
	Total models.Money   `json:"total"`
}

// CartValidation 结算前校验结果
type CartValidation struct {
	Valid      bool              `json:"valid"`
	Errors     []string          `json:"errors"`
	ValidItems []models.CartItem `json:"-"`
}

// AddItem 加入购物车：同一 (商品, 尺码) 合并数量。加购时不校验库存与上架状态，结算时统一校验。
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, size string, quantity int) (*models.CartItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || quantity > MaxCartItemQuantity {
		return nil, ErrCartQuantityInvalid
	}
	if productID == 0 {
		return nil, ErrProductNotFound
	}
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, internalError("cart_add_product", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	size = NormalizeSize(size)
	existing, err := s.cartRepo.GetByIdentity(ctx, userID, productID, size)
	if err != nil {
		return nil, internalError("cart_add_lookup", err)
	}
	if existing != nil && existing.Quantity+quantity > MaxCartItemQuantity {
		return nil, ErrCartQuantityInvalid
	}
	item, err := s.cartRepo.AddQuantity(ctx, userID, productID, size, quantity)
	if err != nil {
		return nil, internalError("cart_add", err)
	}
	if item == nil {
		return nil, internalError("cart_add", fmt.Errorf("cart item missing after upsert"))
	}
	return item, nil
}

// UpdateQuantity 修改数量，数量 <= 0 时删除该项
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}
	if quantity > MaxCartItemQuantity {
		return ErrCartQuantityInvalid
	}
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	affected, err := s.cartRepo.SetQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return internalError("cart_update", err)
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	affected, err := s.cartRepo.DeleteByUserAndID(ctx, userID, itemID)
	if err != nil {
		return internalError("cart_remove", err)
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	if err := s.cartRepo.ClearByUser(ctx, userID); err != nil {
		return internalError("cart_clear", err)
	}
	return nil
}

// GetCart 购物车详情。下架商品仍返回（disponible=false）供前端提示，但不计入总价。
func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError("cart_list", err)
	}
	stocks, err := s.stockIndex(ctx, items)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartItemView, 0, len(items))}
	total := decimal.Zero
	for _, item := range items {
		row := buildCartItemView(item, stocks[stockKey(item.ProductID, item.Size)])
		if row.Product != nil && row.Product.Active {
			total = total.Add(row.Subtotal.Decimal)
		}
		view.Items = append(view.Items, row)
	}
	view.Total = models.NewMoneyFromDecimal(total)
	return view, nil
}

// CalculateTotal 购物车总价（仅上架商品）
func (s *CartService) CalculateTotal(ctx context.Context, userID uint) (decimal.Decimal, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, internalError("cart_list", err)
	}
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil || !item.Product.Active {
			continue
		}
		total = total.Add(LineSubtotal(EffectivePrice(item.Product), item.Quantity))
	}
	return total.Round(2), nil
}

// Validate 结算前校验：商品上架且尺码库存充足
func (s *CartService) Validate(ctx context.Context, userID uint) (*CartValidation, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError("cart_list", err)
	}
	result := &CartValidation{Errors: []string{}}
	if len(items) == 0 {
		result.Errors = append(result.Errors, "cart is empty")
		return result, nil
	}
	stocks, err := s.stockIndex(ctx, items)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Product == nil || !item.Product.Active {
			result.Errors = append(result.Errors, unavailableMessage(item))
			continue
		}
		available := stocks[stockKey(item.ProductID, item.Size)]
		if item.Quantity > available {
			result.Errors = append(result.Errors, insufficientMessage(item.Product.Name, item.Size, available))
			continue
		}
		result.ValidItems = append(result.ValidItems, item)
	}
	result.Valid = len(result.Errors) == 0
	return result, nil
}

func (s *CartService) stockIndex(ctx context.Context, items []models.CartItem) (map[string]int, error) {
	index := make(map[string]int, len(items))
	if len(items) == 0 {
		return index, nil
	}
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	rows, err := s.stockRepo.ListByProducts(ctx, ids)
	if err != nil {
		return nil, internalError("cart_stock", err)
	}
	for _, row := range rows {
		index[stockKey(row.ProductID, row.Size)] = row.Quantity
	}
	return index, nil
}

func buildCartItemView(item models.CartItem, available int) CartItemView {
	row := CartItemView{
		ID:             item.ID,
		ProductID:      item.ProductID,
		Size:           item.Size,
		Quantity:       item.Quantity,
		AvailableStock: available,
		Product:        item.Product,
	}
	if item.Product == nil {
		return row
	}
	effective := EffectivePrice(item.Product)
	row.Name = item.Product.Name
	row.Brand = item.Product.Brand
	row.Image = item.Product.Image
	row.Price = models.NewMoneyFromDecimal(item.Product.Price.Decimal)
	row.EffectivePrice = models.NewMoneyFromDecimal(effective)
	row.DiscountPercent = DiscountPercent(item.Product)
	row.Subtotal = models.NewMoneyFromDecimal(LineSubtotal(effective, item.Quantity))
	row.Available = item.Product.Active && item.Quantity <= available
	return row
}

func stockKey(productID uint, size string) string {
	return fmt.Sprintf("%d|%s", productID, size)
}

func unavailableMessage(item models.CartItem) string {
	if item.Product == nil {
		return fmt.Sprintf("product %d: no longer available", item.ProductID)
	}
	return fmt.Sprintf("%s: no longer available", item.Product.Name)
}

func insufficientMessage(name, size string, available int) string {
	if size == models.SizeNone {
		return fmt.Sprintf("%s: insufficient stock, available: %d", name, available)
	}
	return fmt.Sprintf("%s (size %s): insufficient stock, available: %d", name, size, available)
}
