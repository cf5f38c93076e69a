package models

import "time"

// SizeNone 无尺码商品使用的尺码标识
const SizeNone = ""

// SizeStock 商品尺码库存表
type SizeStock struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                                      // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_size_stock_product_size" json:"product_id"`                        // 商品ID
	Size      string    `gorm:"type:varchar(20);not null;default:'';uniqueIndex:idx_size_stock_product_size" json:"talla"` // 尺码（空串表示无尺码）
	Quantity  int       `gorm:"not null;default:0" json:"stock"`                                                           // 库存数量（不为负）
	CreatedAt time.Time `json:"created_at"`                                                                                // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                                // 更新时间
}

// TableName 指定表名
func (SizeStock) TableName() string {
	return "size_stocks"
}
