package models

import (
	"time"
)

// User 后台用户表
// 说明：注册后默认未激活（is_active=false），由管理员审批后启用。
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                 // 主键
	Name         string     `gorm:"uniqueIndex;not null" json:"name"`     // 用户名
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`    // 邮箱
	PasswordHash string     `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	RoleID       *uint      `gorm:"index" json:"role_id"`                 // 角色ID（可为空）
	IsActive     bool       `gorm:"not null;default:false" json:"is_active"` // 是否已激活
	LastLoginAt  *time.Time `json:"last_login_at"`                        // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                           // 更新时间

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"` // 角色信息
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
