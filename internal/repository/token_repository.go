package repository

import (
	"errors"
	"time"

	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// ApiTokenRepository 访问令牌数据访问接口
type ApiTokenRepository interface {
	Create(token *models.ApiToken) error
	GetByToken(token string) (*models.ApiToken, error)
	Delete(id uint) error
	DeleteByToken(token string) error
	DeleteByUserID(userID uint) error
	DeleteExpired(now time.Time) (int64, error)
}

// GormApiTokenRepository GORM 实现
type GormApiTokenRepository struct {
	db *gorm.DB
}

// NewApiTokenRepository 创建令牌仓库
func NewApiTokenRepository(db *gorm.DB) *GormApiTokenRepository {
	return &GormApiTokenRepository{db: db}
}

// Create 创建令牌
func (r *GormApiTokenRepository) Create(token *models.ApiToken) error {
	return r.db.Create(token).Error
}

// GetByToken 根据令牌值查询
func (r *GormApiTokenRepository) GetByToken(token string) (*models.ApiToken, error) {
	var record models.ApiToken
	if err := r.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Delete 删除令牌
func (r *GormApiTokenRepository) Delete(id uint) error {
	return r.db.Delete(&models.ApiToken{}, id).Error
}

// DeleteByToken 根据令牌值删除
func (r *GormApiTokenRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.ApiToken{}).Error
}

// DeleteByUserID 删除用户全部令牌
func (r *GormApiTokenRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.ApiToken{}).Error
}

// DeleteExpired 批量清理已过期令牌
func (r *GormApiTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at IS NOT NULL AND expires_at < ?", now).Delete(&models.ApiToken{})
	return result.RowsAffected, result.Error
}

// LoginVerifyCodeRepository 超级管理员登录验证码数据访问接口
type LoginVerifyCodeRepository interface {
	Replace(code *models.LoginVerifyCode) error
	GetLatestByUserID(userID uint) (*models.LoginVerifyCode, error)
	DeleteByUserID(userID uint) error
}

// GormLoginVerifyCodeRepository GORM 实现
type GormLoginVerifyCodeRepository struct {
	db *gorm.DB
}

// NewLoginVerifyCodeRepository 创建登录验证码仓库
func NewLoginVerifyCodeRepository(db *gorm.DB) *GormLoginVerifyCodeRepository {
	return &GormLoginVerifyCodeRepository{db: db}
}

// Replace 写入新验证码并废弃该用户的旧验证码
func (r *GormLoginVerifyCodeRepository) Replace(code *models.LoginVerifyCode) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", code.UserID).Delete(&models.LoginVerifyCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

// GetLatestByUserID 获取用户最新的验证码
func (r *GormLoginVerifyCodeRepository) GetLatestByUserID(userID uint) (*models.LoginVerifyCode, error) {
	var record models.LoginVerifyCode
	err := r.db.Where("user_id = ?", userID).Order("id DESC").First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// DeleteByUserID 删除用户全部验证码，验证码一次性使用
func (r *GormLoginVerifyCodeRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.LoginVerifyCode{}).Error
}
