package models

import "time"

// Category 分类表（通过 Active 软下线）
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`         // 唯一标识
	Name      string    `gorm:"type:varchar(120);not null" json:"nombre"` // 名称
	Active    bool      `gorm:"not null;index" json:"activo"`             // 是否启用
	SortOrder int       `gorm:"not null;default:0;index" json:"orden"`    // 排序权重
	CreatedAt time.Time `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                               // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
