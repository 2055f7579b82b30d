package models

import "time"

// FlashSale 限时抢购表
type FlashSale struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                        // 主键
	Name          string     `gorm:"not null" json:"name"`                                        // 活动名称
	ProductID     uint       `gorm:"index;not null" json:"product_id"`                            // 商品ID
	DiscountType  string     `gorm:"not null;default:'percentage'" json:"discount_type"`         // 折扣类型
	DiscountValue Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"` // 折扣值
	StockLimit    int        `gorm:"not null;default:0" json:"stock_limit"`                       // 抢购库存上限，0 为不限
	SoldCount     int        `gorm:"not null;default:0" json:"sold_count"`                        // 已售数量
	StartTime     *time.Time `gorm:"index" json:"start_time"`                                     // 开始时间
	EndTime       *time.Time `gorm:"index" json:"end_time"`                                       // 结束时间
	IsActive      bool       `gorm:"default:true;index" json:"is_active"`                         // 是否启用
	CreatedAt     time.Time  `json:"created_at"`                                                  // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                                  // 更新时间

	// 关联
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品
}

// TableName 指定表名
func (FlashSale) TableName() string {
	return "flash_sales"
}

// Running 判断抢购当前是否进行中
func (f *FlashSale) Running(now time.Time) bool {
	if !f.IsActive {
		return false
	}
	if f.StartTime != nil && now.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && now.After(*f.EndTime) {
		return false
	}
	if f.StockLimit > 0 && f.SoldCount >= f.StockLimit {
		return false
	}
	return true
}
