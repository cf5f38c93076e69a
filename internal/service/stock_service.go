package service

import (
	"context"
	"strings"

	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/repository"

	"gorm.io/gorm"
)

// StockService 尺码库存台账
type StockService struct {
	tx          *TxRunner
	stockRepo   repository.SizeStockRepository
	productRepo repository.ProductRepository
}

// NewStockService 创建库存服务
func NewStockService(tx *TxRunner, stockRepo repository.SizeStockRepository, productRepo repository.ProductRepository) *StockService {
	return &StockService{tx: tx, stockRepo: stockRepo, productRepo: productRepo}
}

// WithTx 返回绑定事务的库存服务
func (s *StockService) WithTx(tx *gorm.DB) *StockService {
	if tx == nil {
		return s
	}
	return &StockService{
		tx:          s.tx,
		stockRepo:   s.stockRepo.WithTx(tx),
		productRepo: s.productRepo.WithTx(tx),
	}
}

// NormalizeSize 去除空白；空值即无尺码
func NormalizeSize(size string) string {
	return strings.TrimSpace(size)
}

// GetStock 查询指定尺码库存，不存在的行视为 0
func (s *StockService) GetStock(ctx context.Context, productID uint, size string) (int, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	row, err := s.stockRepo.Get(ctx, productID, NormalizeSize(size))
	if err != nil {
		return 0, internalError("stock_get", err)
	}
	if row == nil {
		return 0, nil
	}
	return row.Quantity, nil
}

// GetTotalStock 全部尺码库存之和
func (s *StockService) GetTotalStock(ctx context.Context, productID uint) (int, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	total, err := s.stockRepo.SumByProduct(ctx, productID)
	if err != nil {
		return 0, internalError("stock_sum", err)
	}
	return total, nil
}

// HasSufficientStock 库存是否足够
func (s *StockService) HasSufficientStock(ctx context.Context, productID uint, size string, quantity int) (bool, error) {
	available, err := s.GetStock(ctx, productID, size)
	if err != nil {
		return false, err
	}
	return available >= quantity, nil
}

// Decrement 条件扣减。库存不足时不做任何修改并返回 *InsufficientStockError
func (s *StockService) Decrement(ctx context.Context, productID uint, size string, quantity int) error {
	if quantity <= 0 {
		return ErrStockQuantityInvalid
	}
	size = NormalizeSize(size)
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	affected, err := s.stockRepo.Decrement(ctx, productID, size, quantity)
	if err != nil {
		return internalError("stock_decrement", err)
	}
	if affected > 0 {
		return nil
	}
	available, err := s.GetStock(ctx, productID, size)
	if err != nil {
		return err
	}
	return &InsufficientStockError{
		ProductID: productID,
		Size:      size,
		Available: available,
		Requested: quantity,
	}
}

// Increment 回补库存（取消订单时使用）
func (s *StockService) Increment(ctx context.Context, productID uint, size string, quantity int) error {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	if quantity <= 0 {
		return ErrStockQuantityInvalid
	}
	if err := s.stockRepo.Increment(ctx, productID, NormalizeSize(size), quantity); err != nil {
		return internalError("stock_increment", err)
	}
	return nil
}

// SetStock 覆盖设置尺码库存
func (s *StockService) SetStock(ctx context.Context, productID uint, size string, quantity int) error {
	if quantity < 0 {
		return ErrStockQuantityInvalid
	}
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return internalError("stock_set_product", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.stockRepo.Upsert(ctx, productID, NormalizeSize(size), quantity); err != nil {
		return internalError("stock_set", err)
	}
	return nil
}

// ListByProduct 商品全部尺码库存
func (s *StockService) ListByProduct(ctx context.Context, productID uint) ([]models.SizeStock, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	rows, err := s.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, internalError("stock_list", err)
	}
	return rows, nil
}

// ListLowStock 低库存报表（仅上架商品）
func (s *StockService) ListLowStock(ctx context.Context, threshold, page, pageSize int) ([]models.SizeStock, int64, error) {
	if threshold < 0 {
		return nil, 0, ErrStockQuantityInvalid
	}
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	rows, total, err := s.stockRepo.ListLow(ctx, repository.LowStockFilter{
		Page:      page,
		PageSize:  pageSize,
		Threshold: threshold,
	})
	if err != nil {
		return nil, 0, internalError("stock_list_low", err)
	}
	return rows, total, nil
}
