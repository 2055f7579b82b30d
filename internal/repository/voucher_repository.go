package repository

import (
	"errors"
	"strings"

	"github.com/tokoline/tokoline/internal/listquery"
	"github.com/tokoline/tokoline/internal/models"

	"gorm.io/gorm"
)

// VoucherRepository 店铺优惠券数据访问接口
type VoucherRepository interface {
	GetByID(id uint) (*models.Voucher, error)
	GetByCode(code string) (*models.Voucher, error)
	Create(voucher *models.Voucher) error
	Update(voucher *models.Voucher) error
	Delete(id uint) error
	List(filter VoucherListFilter) ([]models.Voucher, int64, error)
	ListActive() ([]models.Voucher, error)
	RedeemTx(tx *gorm.DB, id uint) (bool, error)
}

// GormVoucherRepository GORM 实现
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository 创建优惠券仓库
func NewVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// GetByID 根据 ID 获取优惠券
func (r *GormVoucherRepository) GetByID(id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.First(&voucher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetByCode 根据券码获取优惠券，忽略大小写
func (r *GormVoucherRepository) GetByCode(code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// Create 创建优惠券
func (r *GormVoucherRepository) Create(voucher *models.Voucher) error {
	return r.db.Create(voucher).Error
}

// Update 更新优惠券
func (r *GormVoucherRepository) Update(voucher *models.Voucher) error {
	return r.db.Save(voucher).Error
}

// Delete 删除优惠券
func (r *GormVoucherRepository) Delete(id uint) error {
	return r.db.Delete(&models.Voucher{}, id).Error
}

// List 优惠券列表
func (r *GormVoucherRepository) List(filter VoucherListFilter) ([]models.Voucher, int64, error) {
	query := r.db.Model(&models.Voucher{})

	if filter.Search != "" {
		like := listquery.LikePattern(filter.Search)
		query = query.Where("code LIKE ? OR description LIKE ?", like, like)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = listquery.ApplyPagination(query, filter.Page, filter.PageSize)

	var vouchers []models.Voucher
	if err := query.Order("id DESC").Find(&vouchers).Error; err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}

// ListActive 获取当前启用的优惠券，前台展示使用
func (r *GormVoucherRepository) ListActive() ([]models.Voucher, error) {
	var vouchers []models.Voucher
	if err := r.db.Where("is_active = ?", true).Order("id DESC").Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// RedeemTx 在事务内核销一次使用次数。
// 带 usage_count < usage_limit 守卫的原子更新，防止并发下超卖；
// 返回 false 表示次数已耗尽。
func (r *GormVoucherRepository) RedeemTx(tx *gorm.DB, id uint) (bool, error) {
	result := tx.Model(&models.Voucher{}).
		Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ProductVoucherRepository 商品级优惠券数据访问接口
type ProductVoucherRepository interface {
	GetByID(id uint) (*models.ProductVoucher, error)
	GetByCode(code string) (*models.ProductVoucher, error)
	Create(voucher *models.ProductVoucher) error
	Update(voucher *models.ProductVoucher) error
	Delete(id uint) error
	List(filter ProductVoucherListFilter) ([]models.ProductVoucher, int64, error)
	ListActiveForProduct(productID uint, category string) ([]models.ProductVoucher, error)
	RedeemTx(tx *gorm.DB, id uint) (bool, error)
}

// GormProductVoucherRepository GORM 实现
type GormProductVoucherRepository struct {
	db *gorm.DB
}

// NewProductVoucherRepository 创建商品券仓库
func NewProductVoucherRepository(db *gorm.DB) *GormProductVoucherRepository {
	return &GormProductVoucherRepository{db: db}
}

// GetByID 根据 ID 获取商品券
func (r *GormProductVoucherRepository) GetByID(id uint) (*models.ProductVoucher, error) {
	var voucher models.ProductVoucher
	if err := r.db.First(&voucher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetByCode 根据券码获取商品券，忽略大小写
func (r *GormProductVoucherRepository) GetByCode(code string) (*models.ProductVoucher, error) {
	var voucher models.ProductVoucher
	err := r.db.Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// Create 创建商品券
func (r *GormProductVoucherRepository) Create(voucher *models.ProductVoucher) error {
	return r.db.Create(voucher).Error
}

// Update 更新商品券
func (r *GormProductVoucherRepository) Update(voucher *models.ProductVoucher) error {
	return r.db.Save(voucher).Error
}

// Delete 删除商品券
func (r *GormProductVoucherRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProductVoucher{}, id).Error
}

// List 商品券列表
func (r *GormProductVoucherRepository) List(filter ProductVoucherListFilter) ([]models.ProductVoucher, int64, error) {
	query := r.db.Model(&models.ProductVoucher{})

	if filter.Search != "" {
		like := listquery.LikePattern(filter.Search)
		query = query.Where("code LIKE ? OR name LIKE ?", like, like)
	}
	if filter.Scope != "" {
		query = query.Where("scope = ?", filter.Scope)
	}
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = listquery.ApplyPagination(query, filter.Page, filter.PageSize)

	var vouchers []models.ProductVoucher
	if err := query.Order("id DESC").Find(&vouchers).Error; err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}

// ListActiveForProduct 获取对某商品生效的商品券（含分类范围券）
func (r *GormProductVoucherRepository) ListActiveForProduct(productID uint, category string) ([]models.ProductVoucher, error) {
	var vouchers []models.ProductVoucher
	query := r.db.Where("is_active = ?", true)
	if category != "" {
		query = query.Where("(scope = 'product' AND product_id = ?) OR (scope = 'category' AND category = ?)", productID, category)
	} else {
		query = query.Where("scope = 'product' AND product_id = ?", productID)
	}
	if err := query.Order("id DESC").Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// RedeemTx 在事务内核销一次使用次数，语义同店铺券
func (r *GormProductVoucherRepository) RedeemTx(tx *gorm.DB, id uint) (bool, error) {
	result := tx.Model(&models.ProductVoucher{}).
		Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
