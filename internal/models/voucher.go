package models

import "time"

// Voucher 店铺级优惠券表
type Voucher struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                        // 主键
	Code          string     `gorm:"uniqueIndex;not null" json:"code"`                            // 券码
	Description   string     `gorm:"type:text" json:"description"`                                // 描述
	DiscountType  string     `gorm:"not null;default:'percentage'" json:"discount_type"`         // 折扣类型 percentage/fixed
	DiscountValue Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"` // 折扣值
	MinPurchase   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"min_purchase"`   // 最低消费门槛
	MaxDiscount   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`   // 折扣上限（percentage 时生效）
	UsageLimit    int        `gorm:"not null;default:0" json:"usage_limit"`                       // 使用次数上限，0 为不限
	UsageCount    int        `gorm:"not null;default:0" json:"usage_count"`                       // 已使用次数
	StartDate     *time.Time `gorm:"index" json:"start_date"`                                     // 生效时间
	EndDate       *time.Time `gorm:"index" json:"end_date"`                                       // 失效时间
	IsActive      bool       `gorm:"default:true;index" json:"is_active"`                         // 是否启用
	CreatedAt     time.Time  `json:"created_at"`                                                  // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                                  // 更新时间
}

// TableName 指定表名
func (Voucher) TableName() string {
	return "vouchers"
}

// ActiveNow 判断优惠券当前是否可用（未停用且处于有效窗口内）
func (v *Voucher) ActiveNow(now time.Time) bool {
	if !v.IsActive {
		return false
	}
	if v.StartDate != nil && now.Before(*v.StartDate) {
		return false
	}
	if v.EndDate != nil && now.After(*v.EndDate) {
		return false
	}
	return true
}

// Exhausted 判断使用次数是否已耗尽
func (v *Voucher) Exhausted() bool {
	return v.UsageLimit > 0 && v.UsageCount >= v.UsageLimit
}

// ProductVoucher 商品级优惠券表
type ProductVoucher struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                        // 主键
	Code          string     `gorm:"uniqueIndex;not null" json:"code"`                            // 券码
	Name          string     `json:"name"`                                                        // 活动名称
	Scope         string     `gorm:"not null;default:'product'" json:"scope"`                     // 适用范围 product/category
	ProductID     *uint      `gorm:"index" json:"product_id"`                                     // 适用商品（scope=product）
	Category      string     `gorm:"index" json:"category"`                                       // 适用分类（scope=category）
	DiscountType  string     `gorm:"not null;default:'percentage'" json:"discount_type"`         // 折扣类型
	DiscountValue Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"` // 折扣值
	UsageLimit    int        `gorm:"not null;default:0" json:"usage_limit"`                       // 使用次数上限
	UsageCount    int        `gorm:"not null;default:0" json:"usage_count"`                       // 已使用次数
	StartDate     *time.Time `gorm:"index" json:"start_date"`                                     // 生效时间
	EndDate       *time.Time `gorm:"index" json:"end_date"`                                       // 失效时间
	IsActive      bool       `gorm:"default:true;index" json:"is_active"`                         // 是否启用
	CreatedAt     time.Time  `json:"created_at"`                                                  // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                                  // 更新时间
}

// TableName 指定表名
func (ProductVoucher) TableName() string {
	return "product_vouchers"
}
