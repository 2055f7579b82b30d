package models

import "time"

// Customer 前台客户表
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	Name      string    `gorm:"not null" json:"name"`                   // 姓名
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`      // 邮箱
	Phone     string    `json:"phone"`                                  // 电话
	Address   string    `gorm:"type:text" json:"address"`               // 地址
	Status    string    `gorm:"default:'pending';index" json:"status"`  // 状态 pending/active/blocked
	CreatedAt time.Time `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                             // 更新时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
