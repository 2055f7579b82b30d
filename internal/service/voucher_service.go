package service

import (
	"strings"
	"time"

	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VoucherService 优惠券服务，统一管理店铺券与商品券
type VoucherService struct {
	voucherRepo        repository.VoucherRepository
	productVoucherRepo repository.ProductVoucherRepository
	productRepo        repository.ProductRepository
}

// NewVoucherService 创建优惠券服务
func NewVoucherService(
	voucherRepo repository.VoucherRepository,
	productVoucherRepo repository.ProductVoucherRepository,
	productRepo repository.ProductRepository,
) *VoucherService {
	return &VoucherService{
		voucherRepo:        voucherRepo,
		productVoucherRepo: productVoucherRepo,
		productRepo:        productRepo,
	}
}

// voucherRedemption 已校验通过的一次核销，Redeem 在下单事务内执行
type voucherRedemption struct {
	Discount decimal.Decimal
	redeem   func(tx *gorm.DB) (bool, error)
}

// Redeem 在事务内核销使用次数
func (r *voucherRedemption) Redeem(tx *gorm.DB) (bool, error) {
	if r == nil || r.redeem == nil {
		return true, nil
	}
	return r.redeem(tx)
}

// Apply 校验券码并计算折扣。
// 先查店铺券，未命中再查商品券；商品券只对匹配明细的金额打折。
func (s *VoucherService) Apply(code string, subtotal decimal.Decimal, items []models.OrderItem, now time.Time) (*voucherRedemption, error) {
	voucher, err := s.voucherRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if voucher != nil {
		return s.applyStoreVoucher(voucher, subtotal, now)
	}

	productVoucher, err := s.productVoucherRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if productVoucher != nil {
		return s.applyProductVoucher(productVoucher, items, now)
	}
	return nil, ErrVoucherNotFound
}

func (s *VoucherService) applyStoreVoucher(voucher *models.Voucher, subtotal decimal.Decimal, now time.Time) (*voucherRedemption, error) {
	if !voucher.ActiveNow(now) {
		return nil, ErrVoucherInactive
	}
	if voucher.Exhausted() {
		return nil, ErrVoucherExhausted
	}
	if voucher.MinPurchase.Decimal.IsPositive() && subtotal.LessThan(voucher.MinPurchase.Decimal) {
		return nil, ErrVoucherMinAmount
	}

	discount := storeDiscount(voucher, subtotal)
	id := voucher.ID
	return &voucherRedemption{
		Discount: discount,
		redeem: func(tx *gorm.DB) (bool, error) {
			return s.voucherRepo.RedeemTx(tx, id)
		},
	}, nil
}

func (s *VoucherService) applyProductVoucher(voucher *models.ProductVoucher, items []models.OrderItem, now time.Time) (*voucherRedemption, error) {
	if !voucher.IsActive {
		return nil, ErrVoucherInactive
	}
	if voucher.StartDate != nil && now.Before(*voucher.StartDate) {
		return nil, ErrVoucherInactive
	}
	if voucher.EndDate != nil && now.After(*voucher.EndDate) {
		return nil, ErrVoucherInactive
	}
	if voucher.UsageLimit > 0 && voucher.UsageCount >= voucher.UsageLimit {
		return nil, ErrVoucherExhausted
	}

	base, err := s.matchingAmount(voucher, items)
	if err != nil {
		return nil, err
	}
	if !base.IsPositive() {
		return nil, ErrVoucherNotApplicable
	}

	var discount decimal.Decimal
	switch voucher.DiscountType {
	case constants.DiscountTypeFixed:
		discount = decimal.Min(voucher.DiscountValue.Decimal, base)
	default:
		discount = base.Mul(voucher.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
	}

	id := voucher.ID
	return &voucherRedemption{
		Discount: discount,
		redeem: func(tx *gorm.DB) (bool, error) {
			return s.productVoucherRepo.RedeemTx(tx, id)
		},
	}, nil
}

// matchingAmount 计算商品券适用明细的金额小计
func (s *VoucherService) matchingAmount(voucher *models.ProductVoucher, items []models.OrderItem) (decimal.Decimal, error) {
	base := decimal.Zero
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		matched := false
		switch voucher.Scope {
		case constants.VoucherScopeCategory:
			product, err := s.productRepo.GetByID(*item.ProductID)
			if err != nil {
				return decimal.Zero, err
			}
			matched = product != nil && product.Category == voucher.Category
		default:
			matched = voucher.ProductID != nil && *voucher.ProductID == *item.ProductID
		}
		if matched {
			base = base.Add(item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return base, nil
}

// storeDiscount 店铺券折扣：百分比受上限约束，定额不超过订单小计
func storeDiscount(voucher *models.Voucher, subtotal decimal.Decimal) decimal.Decimal {
	if voucher.DiscountType == constants.DiscountTypeFixed {
		return decimal.Min(voucher.DiscountValue.Decimal, subtotal)
	}
	discount := subtotal.Mul(voucher.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
	if voucher.MaxDiscount.Decimal.IsPositive() && discount.GreaterThan(voucher.MaxDiscount.Decimal) {
		return voucher.MaxDiscount.Decimal
	}
	return discount
}

// ValidateResult 前台券码校验结果
type ValidateResult struct {
	Code          string       `json:"code"`
	DiscountType  string       `json:"discount_type"`
	DiscountValue models.Money `json:"discount_value"`
	Discount      models.Money `json:"discount"`
	MinPurchase   models.Money `json:"min_purchase"`
}

// Validate 前台校验券码并预览折扣金额，不核销
func (s *VoucherService) Validate(code string, subtotal decimal.Decimal) (*ValidateResult, error) {
	voucher, err := s.voucherRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	redemption, err := s.applyStoreVoucher(voucher, subtotal, time.Now())
	if err != nil {
		return nil, err
	}
	return &ValidateResult{
		Code:          voucher.Code,
		DiscountType:  voucher.DiscountType,
		DiscountValue: voucher.DiscountValue,
		Discount:      models.NewMoneyFromDecimal(redemption.Discount),
		MinPurchase:   voucher.MinPurchase,
	}, nil
}

// CreateVoucher 创建店铺券。
// 未填生效时间默认立即生效，失效时间可留空表示长期有效。
func (s *VoucherService) CreateVoucher(voucher *models.Voucher) error {
	voucher.Code = strings.ToUpper(strings.TrimSpace(voucher.Code))
	if voucher.Code == "" || !validDiscount(voucher.DiscountType, voucher.DiscountValue.Decimal) {
		return ErrInvalidInput
	}
	if existing, err := s.voucherRepo.GetByCode(voucher.Code); err != nil {
		return err
	} else if existing != nil {
		return ErrCodeTaken
	}
	if voucher.StartDate == nil {
		now := time.Now()
		voucher.StartDate = &now
	}
	return s.voucherRepo.Create(voucher)
}

// UpdateVoucher 更新店铺券
func (s *VoucherService) UpdateVoucher(id uint, apply func(*models.Voucher)) (*models.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrNotFound
	}
	apply(voucher)
	voucher.Code = strings.ToUpper(strings.TrimSpace(voucher.Code))
	if voucher.Code == "" || !validDiscount(voucher.DiscountType, voucher.DiscountValue.Decimal) {
		return nil, ErrInvalidInput
	}
	if other, err := s.voucherRepo.GetByCode(voucher.Code); err != nil {
		return nil, err
	} else if other != nil && other.ID != voucher.ID {
		return nil, ErrCodeTaken
	}
	if err := s.voucherRepo.Update(voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

// DeleteVoucher 删除店铺券
func (s *VoucherService) DeleteVoucher(id uint) error {
	voucher, err := s.voucherRepo.GetByID(id)
	if err != nil {
		return err
	}
	if voucher == nil {
		return ErrNotFound
	}
	return s.voucherRepo.Delete(id)
}

// ListVouchers 店铺券列表
func (s *VoucherService) ListVouchers(filter repository.VoucherListFilter) ([]models.Voucher, int64, error) {
	return s.voucherRepo.List(filter)
}

// ListActiveVouchers 前台展示当前可用的店铺券
func (s *VoucherService) ListActiveVouchers() ([]models.Voucher, error) {
	vouchers, err := s.voucherRepo.ListActive()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	result := make([]models.Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		if v.ActiveNow(now) && !v.Exhausted() {
			result = append(result, v)
		}
	}
	return result, nil
}

// CreateProductVoucher 创建商品券
func (s *VoucherService) CreateProductVoucher(voucher *models.ProductVoucher) error {
	voucher.Code = strings.ToUpper(strings.TrimSpace(voucher.Code))
	if voucher.Code == "" || !validDiscount(voucher.DiscountType, voucher.DiscountValue.Decimal) {
		return ErrInvalidInput
	}
	if voucher.Scope == constants.VoucherScopeProduct && (voucher.ProductID == nil || *voucher.ProductID == 0) {
		return ErrInvalidInput
	}
	if voucher.Scope == constants.VoucherScopeCategory && strings.TrimSpace(voucher.Category) == "" {
		return ErrInvalidInput
	}
	if existing, err := s.productVoucherRepo.GetByCode(voucher.Code); err != nil {
		return err
	} else if existing != nil {
		return ErrCodeTaken
	}
	if voucher.StartDate == nil {
		now := time.Now()
		voucher.StartDate = &now
	}
	return s.productVoucherRepo.Create(voucher)
}

// UpdateProductVoucher 更新商品券
func (s *VoucherService) UpdateProductVoucher(id uint, apply func(*models.ProductVoucher)) (*models.ProductVoucher, error) {
	voucher, err := s.productVoucherRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrNotFound
	}
	apply(voucher)
	voucher.Code = strings.ToUpper(strings.TrimSpace(voucher.Code))
	if voucher.Code == "" || !validDiscount(voucher.DiscountType, voucher.DiscountValue.Decimal) {
		return nil, ErrInvalidInput
	}
	if other, err := s.productVoucherRepo.GetByCode(voucher.Code); err != nil {
		return nil, err
	} else if other != nil && other.ID != voucher.ID {
		return nil, ErrCodeTaken
	}
	if err := s.productVoucherRepo.Update(voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

// DeleteProductVoucher 删除商品券
func (s *VoucherService) DeleteProductVoucher(id uint) error {
	voucher, err := s.productVoucherRepo.GetByID(id)
	if err != nil {
		return err
	}
	if voucher == nil {
		return ErrNotFound
	}
	return s.productVoucherRepo.Delete(id)
}

// ListProductVouchers 商品券列表
func (s *VoucherService) ListProductVouchers(filter repository.ProductVoucherListFilter) ([]models.ProductVoucher, int64, error) {
	return s.productVoucherRepo.List(filter)
}

// ListVouchersForProduct 前台查询某商品可用的商品券
func (s *VoucherService) ListVouchersForProduct(productID uint) ([]models.ProductVoucher, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	vouchers, err := s.productVoucherRepo.ListActiveForProduct(productID, product.Category)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	result := make([]models.ProductVoucher, 0, len(vouchers))
	for _, v := range vouchers {
		if v.StartDate != nil && now.Before(*v.StartDate) {
			continue
		}
		if v.EndDate != nil && now.After(*v.EndDate) {
			continue
		}
		if v.UsageLimit > 0 && v.UsageCount >= v.UsageLimit {
			continue
		}
		result = append(result, v)
	}
	return result, nil
}

// validDiscount 折扣值合法性：百分比限 (0,100]，定额须为正
func validDiscount(discountType string, value decimal.Decimal) bool {
	if !value.IsPositive() {
		return false
	}
	if discountType == constants.DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return false
	}
	return true
}
