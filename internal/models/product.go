package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Name         string         `gorm:"not null;index" json:"name"`                                  // 商品名称
	Category     string         `gorm:"index" json:"category"`                                       // 分类名称
	RegularPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"regular_price"`  // 原价
	PromoPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"promo_price"`    // 促销价
	Stock        int            `gorm:"not null;default:0" json:"stock"`                             // 库存
	Status       string         `gorm:"default:'active';index" json:"status"`                        // 上架状态
	SoldCount    int            `gorm:"not null;default:0" json:"sold_count"`                        // 累计销量
	Description  string         `gorm:"type:text" json:"description"`                                // 描述
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	Images   []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`   // 图片（按 sort_order 排序）
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // 规格
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductImage 商品图片表
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	ProductID uint      `gorm:"index;not null" json:"product_id"` // 商品ID
	ImagePath string    `gorm:"not null" json:"image_path"`       // 图片路径
	SortOrder int       `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time `json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}

// ProductVariant 商品规格表
type ProductVariant struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	ProductID uint      `gorm:"index;not null" json:"product_id"`                   // 商品ID
	Name      string    `gorm:"not null" json:"name"`                               // 规格名称
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 规格价格
	Stock     int       `gorm:"not null;default:0" json:"stock"`                    // 规格库存
	CreatedAt time.Time `json:"created_at"`                                         // 创建时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
