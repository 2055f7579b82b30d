package repository

import (
	"errors"
	"strings"

	"github.com/tokoline/tokoline/internal/listquery"
	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 商品评价数据访问接口
type ReviewRepository interface {
	GetByID(id uint) (*models.Review, error)
	Upsert(review *models.Review) error
	Delete(id uint) error
	List(filter ReviewListFilter) ([]models.Review, int64, error)
	ListByProduct(productID uint) ([]models.Review, error)
	ProductRatingSummary(productID uint) (float64, int64, error)
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// GetByID 根据 ID 获取评价
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Upsert 写入评价。同一客户对同一订单内同一商品重复提交时更新原记录。
func (r *GormReviewRepository) Upsert(review *models.Review) error {
	review.CustomerEmail = strings.ToLower(strings.TrimSpace(review.CustomerEmail))
	var existing models.Review
	err := r.db.Where("customer_email = ? AND order_id = ? AND product_id = ?",
		review.CustomerEmail, review.OrderID, review.ProductID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(review).Error
		}
		return err
	}
	existing.CustomerName = review.CustomerName
	existing.Rating = review.Rating
	existing.Comment = review.Comment
	if err := r.db.Save(&existing).Error; err != nil {
		return err
	}
	*review = existing
	return nil
}

// Delete 删除评价
func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// List 评价列表
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{})

	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.OrderID > 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Rating > 0 {
		query = query.Where("rating = ?", filter.Rating)
	}
	if filter.Search != "" {
		like := listquery.LikePattern(filter.Search)
		query = query.Where("customer_name LIKE ? OR customer_email LIKE ? OR comment LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = listquery.ApplyPagination(query, filter.Page, filter.PageSize)

	var reviews []models.Review
	if err := query.Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListByProduct 获取商品全部评价
func (r *GormReviewRepository) ListByProduct(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("product_id = ?", productID).Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ProductRatingSummary 获取商品平均评分与评价数
func (r *GormReviewRepository) ProductRatingSummary(productID uint) (float64, int64, error) {
	type row struct {
		Avg   float64
		Total int64
	}
	var result row
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as total").
		Where("product_id = ?", productID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Total, nil
}
