package repository

import (
	"errors"

	"github.com/tokoline/tokoline/internal/listquery"
	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// productSortColumns 商品列表允许排序的列
var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "regular_price",
	"stock":      "stock",
	"sold_count": "sold_count",
	"created_at": "created_at",
}

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetByIDWithAssets(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	List(filter ProductListFilter) ([]models.Product, int64, error)
	TopSelling(limit int) ([]models.Product, error)
	ListDiscounted() ([]models.Product, error)
	UpdatePromoPrice(id uint, promo models.Money) error
	IncreaseSoldCount(id uint, quantity int) error
	ReplaceImages(productID uint, images []models.ProductImage) error
	ReplaceVariants(productID uint, variants []models.ProductVariant) error
	GetVariant(id uint) (*models.ProductVariant, error)
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByIDWithAssets 根据 ID 获取商品并预载图片与规格
func (r *GormProductRepository) GetByIDWithAssets(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Variants").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 软删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if filter.Search != "" {
		like := listquery.LikePattern(filter.Search)
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", "active")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = listquery.ApplyPagination(query, filter.Page, filter.PageSize)
	if filter.WithAssets {
		query = query.
			Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
			Preload("Variants")
	}

	order := listquery.OrderClause(filter.SortBy, filter.SortOrder, productSortColumns, "id DESC")
	var products []models.Product
	if err := query.Order(order).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// TopSelling 按销量取上架商品
func (r *GormProductRepository) TopSelling(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	var products []models.Product
	err := r.db.Where("status = ?", "active").
		Order("sold_count DESC, id ASC").
		Limit(limit).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListDiscounted 取设置了直降价的商品，促销价必须低于原价才算折扣。
func (r *GormProductRepository) ListDiscounted() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("promo_price > 0 AND promo_price < regular_price").
		Order("updated_at DESC, id DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// UpdatePromoPrice 只改促销价字段
func (r *GormProductRepository) UpdatePromoPrice(id uint, promo models.Money) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).
		Update("promo_price", promo).Error
}

// IncreaseSoldCount 累加销量并扣减库存
func (r *GormProductRepository) IncreaseSoldCount(id uint, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	return r.db.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sold_count": gorm.Expr("sold_count + ?", quantity),
		"stock":      gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", quantity, quantity),
	}).Error
}

// ReplaceImages 整组替换商品图片
func (r *GormProductRepository) ReplaceImages(productID uint, images []models.ProductImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		for i := range images {
			images[i].ID = 0
			images[i].ProductID = productID
		}
		return tx.Create(&images).Error
	})
}

// ReplaceVariants 整组替换商品规格
func (r *GormProductRepository) ReplaceVariants(productID uint, variants []models.ProductVariant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if len(variants) == 0 {
			return nil
		}
		for i := range variants {
			variants[i].ID = 0
			variants[i].ProductID = productID
		}
		return tx.Create(&variants).Error
	})
}

// GetVariant 获取商品规格
func (r *GormProductRepository) GetVariant(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}
