package models

import "time"

// Product 商品表
type Product struct {
	ID               uint        `gorm:"primarykey" json:"id"`                                // 主键
	CategoryID       uint        `gorm:"not null;index" json:"category_id"`                   // 分类ID
	Name             string      `gorm:"type:varchar(200);not null" json:"nombre"`            // 名称
	Description      string      `gorm:"type:text" json:"descripcion"`                        // 描述
	Brand            string      `gorm:"type:varchar(120);index" json:"marca"`                // 品牌
	Price            Money       `gorm:"type:decimal(20,2);not null;default:0" json:"precio"` // 基础价格
	PromoPrice       *Money      `gorm:"type:decimal(20,2)" json:"precio_promocion"`          // 促销价格（可空）
	Active           bool        `gorm:"not null;index" json:"activo"`                        // 是否上架
	Featured         bool        `gorm:"not null;index" json:"destacado"`                     // 是否推荐
	Image            string      `gorm:"type:varchar(500)" json:"imagen"`                     // 主图
	AdditionalImages StringArray `gorm:"type:json" json:"imagenes_adicionales"`               // 附加图片
	Features         StringArray `gorm:"type:json" json:"caracteristicas"`                    // 商品特性
	SortOrder        int         `gorm:"not null;default:0;index" json:"orden"`               // 排序权重
	CreatedAt        time.Time   `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt        time.Time   `json:"updated_at"`                                          // 更新时间

	// 关联
	Category *Category   `gorm:"foreignKey:CategoryID" json:"categoria,omitempty"` // 分类信息
	Sizes    []SizeStock `gorm:"foreignKey:ProductID" json:"tallas,omitempty"`     // 尺码库存
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
