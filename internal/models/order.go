package models

import "time"

// Order 订单表
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                // 主键
	OrderNo         string     `gorm:"uniqueIndex;not null" json:"order_no"`                // 订单编号
	UserID          uint       `gorm:"index;not null" json:"user_id"`                       // 用户ID
	Total           Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total"`  // 订单总额（创建时锁定）
	Status          string     `gorm:"type:varchar(20);index;not null" json:"estado"`       // 订单状态
	ShippingAddress string     `gorm:"type:text;not null" json:"direccion_envio"`           // 收货地址
	ContactPhone    *string    `gorm:"type:varchar(40)" json:"telefono_contacto,omitempty"` // 联系电话
	Notes           *string    `gorm:"type:text" json:"notas,omitempty"`                    // 备注
	CanceledAt      *time.Time `gorm:"index" json:"canceled_at,omitempty"`                  // 取消时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt       time.Time  `gorm:"index" json:"updated_at"`                             // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
