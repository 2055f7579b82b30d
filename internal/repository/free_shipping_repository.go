package repository

import (
	"errors"
	"time"

	"github.com/tokoline/tokoline/internal/listquery"
	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// FreeShippingRepository 包邮活动数据访问接口
type FreeShippingRepository interface {
	GetByID(id uint) (*models.FreeShippingPromotion, error)
	Create(promo *models.FreeShippingPromotion) error
	Update(promo *models.FreeShippingPromotion) error
	Delete(id uint) error
	List(filter FreeShippingListFilter) ([]models.FreeShippingPromotion, int64, error)
	ListActive(now time.Time) ([]models.FreeShippingPromotion, error)
}

// GormFreeShippingRepository GORM 实现
type GormFreeShippingRepository struct {
	db *gorm.DB
}

// NewFreeShippingRepository 创建包邮活动仓库
func NewFreeShippingRepository(db *gorm.DB) *GormFreeShippingRepository {
	return &GormFreeShippingRepository{db: db}
}

// GetByID 根据 ID 获取包邮活动
func (r *GormFreeShippingRepository) GetByID(id uint) (*models.FreeShippingPromotion, error) {
	var promo models.FreeShippingPromotion
	if err := r.db.First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// Create 创建包邮活动
func (r *GormFreeShippingRepository) Create(promo *models.FreeShippingPromotion) error {
	return r.db.Create(promo).Error
}

// Update 更新包邮活动
func (r *GormFreeShippingRepository) Update(promo *models.FreeShippingPromotion) error {
	return r.db.Save(promo).Error
}

// Delete 删除包邮活动
func (r *GormFreeShippingRepository) Delete(id uint) error {
	return r.db.Delete(&models.FreeShippingPromotion{}, id).Error
}

// List 包邮活动列表
func (r *GormFreeShippingRepository) List(filter FreeShippingListFilter) ([]models.FreeShippingPromotion, int64, error) {
	query := r.db.Model(&models.FreeShippingPromotion{})

	if filter.RuleType != "" {
		query = query.Where("rule_type = ?", filter.RuleType)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = listquery.ApplyPagination(query, filter.Page, filter.PageSize)

	var promos []models.FreeShippingPromotion
	if err := query.Order("id DESC").Find(&promos).Error; err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

// ListActive 获取当前生效的包邮活动
func (r *GormFreeShippingRepository) ListActive(now time.Time) ([]models.FreeShippingPromotion, error) {
	var promos []models.FreeShippingPromotion
	err := r.db.Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("id DESC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}
