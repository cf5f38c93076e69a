package repository

import (
	"context"
	"errors"
	"time"

	"github.com/calzado-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error)
	GetByUserAndID(ctx context.Context, userID, itemID uint) (*models.CartItem, error)
	GetByIdentity(ctx context.Context, userID, productID uint, size string) (*models.CartItem, error)
	AddQuantity(ctx context.Context, userID, productID uint, size string, quantity int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID uint, quantity int) (int64, error)
	DeleteByUserAndID(ctx context.Context, userID, itemID uint) (int64, error)
	ClearByUser(ctx context.Context, userID uint) error
	DeleteByProduct(ctx context.Context, productID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车项（含商品快照）
func (r *GormCartRepository) ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByUserAndID 获取属于用户的购物车项，不存在返回 nil
func (r *GormCartRepository) GetByUserAndID(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByIdentity 按 (用户, 商品, 尺码) 获取购物车项
func (r *GormCartRepository) GetByIdentity(ctx context.Context, userID, productID uint, size string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ? AND size = ?", userID, productID, size).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// AddQuantity 合并写入：已存在则累加数量，否则新建。依赖唯一索引做原子 upsert。
func (r *GormCartRepository) AddQuantity(ctx context.Context, userID, productID uint, size string, quantity int) (*models.CartItem, error) {
	now := time.Now()
	row := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByIdentity(ctx, userID, productID, size)
}

// SetQuantity 设置数量，返回受影响行数（0 表示不属于该用户或不存在）
func (r *GormCartRepository) SetQuantity(ctx context.Context, userID, itemID uint, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteByUserAndID 删除用户的购物车项
func (r *GormCartRepository) DeleteByUserAndID(ctx context.Context, userID, itemID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// DeleteByProduct 删除引用该商品的全部购物车项
func (r *GormCartRepository) DeleteByProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.CartItem{}).Error
}
