package models

import (
	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaults 初始化内置角色与默认超级管理员账号
func InitDefaults(email, password string) error {
	if err := initDefaultRoles(); err != nil {
		return err
	}
	return initDefaultSuperAdmin(email, password)
}

// initDefaultRoles 保证三个内置角色存在且超级管理员拥有全部权限
func initDefaultRoles() error {
	defaults := []Role{
		{ID: constants.RoleIDSuperAdmin, Name: constants.RoleNameSuper, DisplayName: "Super Admin", Permissions: StringArray(constants.AllPermissions())},
		{ID: 2, Name: constants.RoleNameAdmin, DisplayName: "Admin", Permissions: StringArray{
			constants.PermProductsManage,
			constants.PermOrdersManage,
			constants.PermPromosManage,
			constants.PermCustomersManage,
			constants.PermAnalyticsView,
		}},
		{ID: 3, Name: constants.RoleNameStaff, DisplayName: "Staff", Permissions: StringArray{
			constants.PermOrdersManage,
		}},
	}

	for _, r := range defaults {
		var existing Role
		err := DB.Where("id = ?", r.ID).First(&existing).Error
		if err == nil {
			// 超级管理员角色的权限集合跟随版本更新
			if r.ID == constants.RoleIDSuperAdmin {
				if err := DB.Model(&Role{}).Where("id = ?", r.ID).Update("permissions", r.Permissions).Error; err != nil {
					logger.Warnw("sync_superadmin_permissions_failed", "error", err)
				}
			}
			continue
		}
		if err := DB.Create(&r).Error; err != nil {
			return err
		}
		logger.Infow("default_role_created", "role", r.Name)
	}
	return nil
}

// initDefaultSuperAdmin 无任何账号时创建默认超级管理员
func initDefaultSuperAdmin(email, password string) error {
	var count int64
	DB.Model(&User{}).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "admin@tokoline.local"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	roleID := constants.RoleIDSuperAdmin
	user := User{
		Name:         "admin",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       &roleID,
		IsActive:     true,
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_superadmin_created_with_default_password", "email", email)
		logger.Warnw("default_superadmin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_superadmin_created", "email", email, "password_hidden", true)
	}
	return nil
}
