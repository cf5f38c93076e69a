package repository

import (
	"context"
	"errors"
	"time"

	"github.com/calzado-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SizeStockRepository 尺码库存数据访问接口
type SizeStockRepository interface {
	Get(ctx context.Context, productID uint, size string) (*models.SizeStock, error)
	GetForUpdate(ctx context.Context, productID uint, size string) (*models.SizeStock, error)
	ListByProduct(ctx context.Context, productID uint) ([]models.SizeStock, error)
	ListByProducts(ctx context.Context, productIDs []uint) ([]models.SizeStock, error)
	SumByProduct(ctx context.Context, productID uint) (int, error)
	Upsert(ctx context.Context, productID uint, size string, quantity int) error
	Decrement(ctx context.Context, productID uint, size string, quantity int) (int64, error)
	Increment(ctx context.Context, productID uint, size string, quantity int) error
	DeleteByProduct(ctx context.Context, productID uint) error
	ListLow(ctx context.Context, filter LowStockFilter) ([]models.SizeStock, int64, error)
	WithTx(tx *gorm.DB) SizeStockRepository
}

// GormSizeStockRepository GORM 实现
type GormSizeStockRepository struct {
	db *gorm.DB
}

// NewSizeStockRepository 创建尺码库存仓库
func NewSizeStockRepository(db *gorm.DB) *GormSizeStockRepository {
	return &GormSizeStockRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSizeStockRepository) WithTx(tx *gorm.DB) SizeStockRepository {
	if tx == nil {
		return r
	}
	return &GormSizeStockRepository{db: tx}
}

// Get 获取单个尺码库存，不存在返回 nil
func (r *GormSizeStockRepository) Get(ctx context.Context, productID uint, size string) (*models.SizeStock, error) {
	return r.get(r.db.WithContext(ctx), productID, size)
}

// GetForUpdate 加行锁读取尺码库存（postgres 下为 SELECT ... FOR UPDATE）
func (r *GormSizeStockRepository) GetForUpdate(ctx context.Context, productID uint, size string) (*models.SizeStock, error) {
	return r.get(lockForUpdate(r.db.WithContext(ctx)), productID, size)
}

func (r *GormSizeStockRepository) get(query *gorm.DB, productID uint, size string) (*models.SizeStock, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	var row models.SizeStock
	if err := query.Where("product_id = ? AND size = ?", productID, size).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByProduct 获取商品全部尺码库存
func (r *GormSizeStockRepository) ListByProduct(ctx context.Context, productID uint) ([]models.SizeStock, error) {
	var rows []models.SizeStock
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("size ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByProducts 批量获取尺码库存
func (r *GormSizeStockRepository) ListByProducts(ctx context.Context, productIDs []uint) ([]models.SizeStock, error) {
	if len(productIDs) == 0 {
		return []models.SizeStock{}, nil
	}
	var rows []models.SizeStock
	if err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Order("product_id ASC, size ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumByProduct 商品总库存（所有尺码求和）
func (r *GormSizeStockRepository) SumByProduct(ctx context.Context, productID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.SizeStock{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// Upsert 设置尺码库存（存在则覆盖数量）
func (r *GormSizeStockRepository) Upsert(ctx context.Context, productID uint, size string, quantity int) error {
	now := time.Now()
	row := models.SizeStock{
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": now,
		}),
	}).Create(&row).Error
}

// Decrement 条件扣减库存：仅当剩余数量足够时才更新，返回受影响行数（0 表示库存不足）
func (r *GormSizeStockRepository) Decrement(ctx context.Context, productID uint, size string, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement")
	}
	result := r.db.WithContext(ctx).Model(&models.SizeStock{}).
		Where("product_id = ? AND size = ? AND quantity >= ?", productID, size, quantity).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Increment 回补库存（行不存在时创建）
func (r *GormSizeStockRepository) Increment(ctx context.Context, productID uint, size string, quantity int) error {
	if productID == 0 || quantity <= 0 {
		return errors.New("invalid stock increment")
	}
	now := time.Now()
	row := models.SizeStock{
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("size_stocks.quantity + ?", quantity),
			"updated_at": now,
		}),
	}).Create(&row).Error
}

// DeleteByProduct 删除商品全部尺码库存
func (r *GormSizeStockRepository) DeleteByProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.SizeStock{}).Error
}

// ListLow 查询低于阈值的尺码库存（仅上架商品）
func (r *GormSizeStockRepository) ListLow(ctx context.Context, filter LowStockFilter) ([]models.SizeStock, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SizeStock{}).
		Joins("JOIN products ON products.id = size_stocks.product_id").
		Where("products.active = ? AND size_stocks.quantity <= ?", true, filter.Threshold)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.SizeStock
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Select("size_stocks.*").Order("size_stocks.quantity ASC, size_stocks.id ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
