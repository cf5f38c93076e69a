package models

import "time"

// OrderItem 订单项（下单时的不可变快照）
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID   uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID
	ProductName string    `gorm:"type:varchar(200);not null" json:"nombre_producto"`       // 商品名称快照
	Size        string    `gorm:"type:varchar(20);not null;default:''" json:"talla"`       // 尺码
	Quantity    int       `gorm:"not null" json:"cantidad"`                                // 数量
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价
	Subtotal    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 小计
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
