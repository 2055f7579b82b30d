package repository

import (
	"errors"
	"time"

	"github.com/tokoline/tokoline/internal/listquery"
	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// FlashSaleRepository 限时抢购数据访问接口
type FlashSaleRepository interface {
	GetByID(id uint) (*models.FlashSale, error)
	Create(sale *models.FlashSale) error
	Update(sale *models.FlashSale) error
	Delete(id uint) error
	List(filter FlashSaleListFilter) ([]models.FlashSale, int64, error)
	ListRunning(now time.Time) ([]models.FlashSale, error)
	GetRunningForProduct(productID uint, now time.Time) (*models.FlashSale, error)
	ReserveTx(tx *gorm.DB, id uint, quantity int) (bool, error)
}

// GormFlashSaleRepository GORM 实现
type GormFlashSaleRepository struct {
	db *gorm.DB
}

// NewFlashSaleRepository 创建限时抢购仓库
func NewFlashSaleRepository(db *gorm.DB) *GormFlashSaleRepository {
	return &GormFlashSaleRepository{db: db}
}

// GetByID 根据 ID 获取抢购活动
func (r *GormFlashSaleRepository) GetByID(id uint) (*models.FlashSale, error) {
	var sale models.FlashSale
	if err := r.db.Preload("Product").First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// Create 创建抢购活动
func (r *GormFlashSaleRepository) Create(sale *models.FlashSale) error {
	return r.db.Create(sale).Error
}

// Update 更新抢购活动
func (r *GormFlashSaleRepository) Update(sale *models.FlashSale) error {
	return r.db.Save(sale).Error
}

// Delete 删除抢购活动
func (r *GormFlashSaleRepository) Delete(id uint) error {
	return r.db.Delete(&models.FlashSale{}, id).Error
}

// List 抢购活动列表
func (r *GormFlashSaleRepository) List(filter FlashSaleListFilter) ([]models.FlashSale, int64, error) {
	query := r.db.Model(&models.FlashSale{})

	if filter.Search != "" {
		query = query.Where("name LIKE ?", listquery.LikePattern(filter.Search))
	}
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.OnlyRunning {
		now := time.Now()
		query = query.Where("is_active = ?", true).
			Where("start_time IS NULL OR start_time <= ?", now).
			Where("end_time IS NULL OR end_time >= ?", now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = listquery.ApplyPagination(query, filter.Page, filter.PageSize)
	if filter.WithProduct {
		query = query.Preload("Product")
	}

	var sales []models.FlashSale
	if err := query.Order("id DESC").Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// ListRunning 获取当前进行中的抢购活动，前台展示使用
func (r *GormFlashSaleRepository) ListRunning(now time.Time) ([]models.FlashSale, error) {
	var sales []models.FlashSale
	err := r.db.Where("is_active = ?", true).
		Where("start_time IS NULL OR start_time <= ?", now).
		Where("end_time IS NULL OR end_time >= ?", now).
		Preload("Product").
		Order("end_time ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// GetRunningForProduct 获取某商品当前进行中的抢购活动
func (r *GormFlashSaleRepository) GetRunningForProduct(productID uint, now time.Time) (*models.FlashSale, error) {
	var sale models.FlashSale
	err := r.db.Where("product_id = ? AND is_active = ?", productID, true).
		Where("start_time IS NULL OR start_time <= ?", now).
		Where("end_time IS NULL OR end_time >= ?", now).
		Order("id DESC").
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// ReserveTx 在事务内占用抢购库存，带 sold_count 守卫防止超卖
func (r *GormFlashSaleRepository) ReserveTx(tx *gorm.DB, id uint, quantity int) (bool, error) {
	if quantity <= 0 {
		return true, nil
	}
	result := tx.Model(&models.FlashSale{}).
		Where("id = ? AND (stock_limit = 0 OR sold_count + ? <= stock_limit)", id, quantity).
		Update("sold_count", gorm.Expr("sold_count + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
