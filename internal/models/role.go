package models

import "time"

// Role 角色表
// 说明：permissions 为能力标识字符串数组，1 号角色固定为超级管理员。
type Role struct {
	ID          uint        `gorm:"primarykey" json:"id"`             // 主键
	Name        string      `gorm:"uniqueIndex;not null" json:"name"` // 角色标识
	DisplayName string      `gorm:"not null" json:"display_name"`     // 展示名称
	Permissions StringArray `gorm:"type:json" json:"permissions"`     // 权限标识数组
	CreatedAt   time.Time   `json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (Role) TableName() string {
	return "roles"
}
