package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/calzado-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Order, error)
	GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Order, error)
	List(ctx context.Context, filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据 ID 获取订单（含订单项），不存在返回 nil
func (r *GormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	return r.first(r.db.WithContext(ctx).Preload("Items"), "id = ?", id)
}

// GetByIDForUpdate 加锁读取订单，用于状态流转
func (r *GormOrderRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	return r.first(lockForUpdate(r.db.WithContext(ctx)).Preload("Items"), "id = ?", id)
}

// GetByIDAndUser 获取用户自己的订单
func (r *GormOrderRepository) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Order, error) {
	return r.first(r.db.WithContext(ctx).Preload("Items"), "id = ? AND user_id = ?", id, userID)
}

func (r *GormOrderRepository) first(query *gorm.DB, condition string, args ...interface{}) (*models.Order, error) {
	var order models.Order
	if err := query.Where(condition, args...).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表
func (r *GormOrderRepository) List(ctx context.Context, filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Preload("Items"), filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uint, status string, updates map[string]interface{}) error {
	payload := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	for key, value := range updates {
		payload[key] = value
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(payload).Error
}
