package models

import "time"

// Review 商品评价表
// 同一客户对同一订单内同一商品只保留一条评价，重复提交按更新处理。
type Review struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                            // 主键
	CustomerEmail string    `gorm:"uniqueIndex:idx_review_identity;not null" json:"customer_email"`  // 客户邮箱
	OrderID       uint      `gorm:"uniqueIndex:idx_review_identity;not null" json:"order_id"`        // 订单ID
	ProductID     uint      `gorm:"uniqueIndex:idx_review_identity;not null;index" json:"product_id"` // 商品ID
	CustomerName  string    `json:"customer_name"`                                                   // 客户姓名
	Rating        int       `gorm:"not null;default:5" json:"rating"`                                // 评分 1-5
	Comment       string    `gorm:"type:text" json:"comment"`                                        // 评价内容
	CreatedAt     time.Time `json:"created_at"`                                                      // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
