package models

import "time"

// FreeShippingPromotion 包邮活动表
type FreeShippingPromotion struct {
	ID        uint       `gorm:"primarykey" json:"id"`                                     // 主键
	Name      string     `gorm:"not null" json:"name"`                                     // 活动名称
	RuleType  string     `gorm:"not null;default:'min_amount'" json:"rule_type"`          // 规则类型 location/min_amount/category
	MinAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"min_amount"`  // 最低消费（rule_type=min_amount）
	Locations StringArray `gorm:"type:json" json:"locations"`                              // 适用地区（rule_type=location）
	Category  string     `gorm:"index" json:"category"`                                    // 适用分类（rule_type=category）
	StartDate *time.Time `gorm:"index" json:"start_date"`                                  // 生效时间
	EndDate   *time.Time `gorm:"index" json:"end_date"`                                    // 失效时间
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`                      // 是否启用
	CreatedAt time.Time  `json:"created_at"`                                               // 创建时间
	UpdatedAt time.Time  `json:"updated_at"`                                               // 更新时间
}

// TableName 指定表名
func (FreeShippingPromotion) TableName() string {
	return "free_shipping_promotions"
}
