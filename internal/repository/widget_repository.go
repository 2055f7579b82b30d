package repository

import (
	"errors"

	"github.com/tokoline/tokoline/internal/listquery"
	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// WidgetRepository 页面挂件数据访问接口
type WidgetRepository interface {
	GetByID(id uint) (*models.Widget, error)
	Create(widget *models.Widget) error
	Update(widget *models.Widget) error
	Delete(id uint) error
	List(filter WidgetListFilter) ([]models.Widget, int64, error)
	ListActive(widgetType string) ([]models.Widget, error)
}

// GormWidgetRepository GORM 实现
type GormWidgetRepository struct {
	db *gorm.DB
}

// NewWidgetRepository 创建挂件仓库
func NewWidgetRepository(db *gorm.DB) *GormWidgetRepository {
	return &GormWidgetRepository{db: db}
}

// GetByID 根据 ID 获取挂件
func (r *GormWidgetRepository) GetByID(id uint) (*models.Widget, error) {
	var widget models.Widget
	if err := r.db.First(&widget, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &widget, nil
}

// Create 创建挂件
func (r *GormWidgetRepository) Create(widget *models.Widget) error {
	return r.db.Create(widget).Error
}

// Update 更新挂件
func (r *GormWidgetRepository) Update(widget *models.Widget) error {
	return r.db.Save(widget).Error
}

// Delete 删除挂件
func (r *GormWidgetRepository) Delete(id uint) error {
	return r.db.Delete(&models.Widget{}, id).Error
}

// List 挂件列表
func (r *GormWidgetRepository) List(filter WidgetListFilter) ([]models.Widget, int64, error) {
	query := r.db.Model(&models.Widget{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = listquery.ApplyPagination(query, filter.Page, filter.PageSize)

	var widgets []models.Widget
	if err := query.Order("sort_order ASC, id ASC").Find(&widgets).Error; err != nil {
		return nil, 0, err
	}
	return widgets, total, nil
}

// ListActive 获取启用的挂件，前台展示使用
func (r *GormWidgetRepository) ListActive(widgetType string) ([]models.Widget, error) {
	query := r.db.Where("is_active = ?", true)
	if widgetType != "" {
		query = query.Where("type = ?", widgetType)
	}
	var widgets []models.Widget
	if err := query.Order("sort_order ASC, id ASC").Find(&widgets).Error; err != nil {
		return nil, err
	}
	return widgets, nil
}
